package inform

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CristianNieto3/Technician-Memo/internal/pkg/messages"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/persistence"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/utils"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/utils/handler"
	"github.com/airenas/go-app/pkg/goapp"
	"github.com/jordan-wright/email"
	"github.com/vgarvardt/gue/v5"
)

// Sender send emails
type Sender interface {
	Send(email *email.Email) error
}

// EmailMaker prepares the email
type EmailMaker interface {
	Make(po *persistence.PurchaseOrder) (*email.Email, error)
}

// DB loads purchase orders
type DB interface {
	GetPurchaseOrder(ctx context.Context, id int64) (*persistence.PurchaseOrder, error)
}

// ServiceData keeps data required for service work
type ServiceData struct {
	GueClient   *gue.Client
	WorkerCount int
	EmailSender Sender
	EmailMaker  EmailMaker
	DB          DB
	Testing     bool
}

// StartWorkerService starts the event queue listener service to listen for inform events
// returns channel for tracking when all jobs are finished
func StartWorkerService(ctx context.Context, data *ServiceData) (chan struct{}, error) {
	if err := validate(data); err != nil {
		return nil, err
	}
	goapp.Log.Info().Int("workers", data.WorkerCount).Msg("Starting listen for messages")

	wm := gue.WorkMap{
		messages.Inform: handler.Create(data, handleInform,
			handler.DefaultOpts[messages.OrderMessage]().WithTimeout(time.Minute).
				WithBackoff(handler.DefaultBackoffOrTest(data.Testing))),
	}

	pool, err := gue.NewWorkerPool(
		data.GueClient, wm, data.WorkerCount,
		gue.WithPoolQueue(messages.Inform),
		gue.WithPoolLogger(utils.NewGueLoggerAdapter()),
		gue.WithPoolPollInterval(500*time.Millisecond),
		gue.WithPoolPollStrategy(gue.RunAtPollStrategy),
		gue.WithPoolID("po-inform"),
	)
	if err != nil {
		return nil, fmt.Errorf("could not build gue workers pool: %w", err)
	}
	res := make(chan struct{}, 1)
	go func() {
		goapp.Log.Info().Msg("Starting workers")
		if err := pool.Run(ctx); err != nil {
			goapp.Log.Error().Err(err).Msg("pool error")
		}
		goapp.Log.Info().Msg("Pool workers finished")
		res <- struct{}{}
	}()
	return res, nil
}

func handleInform(ctx context.Context, m *messages.OrderMessage, data *ServiceData) error {
	goapp.Log.Info().Int64("ID", m.OrderID).Str("requestID", m.RequestID).Msg("handling")

	po, err := data.DB.GetPurchaseOrder(ctx, m.OrderID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			goapp.Log.Info().Int64("ID", m.OrderID).Msg("No order, skip")
			return nil
		}
		return fmt.Errorf("can't load purchase order: %w", err)
	}

	email, err := data.EmailMaker.Make(po)
	if err != nil {
		return fmt.Errorf("can't prepare email: %w", err)
	}
	if err := data.EmailSender.Send(email); err != nil {
		return fmt.Errorf("can't send email: %w", err)
	}
	goapp.Log.Info().Int64("ID", m.OrderID).Strs("to", email.To).Msg("sent")
	return nil
}

func validate(data *ServiceData) error {
	if data.GueClient == nil {
		return fmt.Errorf("no gue client")
	}
	if data.WorkerCount < 1 {
		return fmt.Errorf("no worker count provided")
	}
	if data.EmailMaker == nil {
		return fmt.Errorf("no EmailMaker")
	}
	if data.EmailSender == nil {
		return fmt.Errorf("no EmailSender")
	}
	if data.DB == nil {
		return fmt.Errorf("no DB")
	}
	return nil
}
