package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/facebookgo/grace/gracehttp"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	amessages "github.com/airenas/async-api/pkg/messages"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/api"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/export"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/messages"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/persistence"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/pipeline"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/utils"

	"github.com/airenas/go-app/pkg/goapp"

	"github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Processor turns the audio into a purchase order
type Processor interface {
	Process(ctx context.Context, audio []byte) (*pipeline.Result, error)
}

// MsgSender provides send msg functionality
type MsgSender interface {
	SendMessage(context.Context, amessages.Message, string) error
}

// DB reads and deletes stored data
type DB interface {
	ListPurchaseOrders(ctx context.Context) ([]*persistence.PurchaseOrder, error)
	ListPurchaseOrdersForExport(ctx context.Context) ([]*persistence.PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, id int64) (*persistence.PurchaseOrder, error)
	DeletePurchaseOrder(ctx context.Context, id int64) error
	CostSummary(ctx context.Context) (*persistence.CostSummary, error)
	DailyCostBreakdown(ctx context.Context) ([]*persistence.DailyCost, error)
}

// Data keeps data required for service work
type Data struct {
	Port      int
	Processor Processor
	DB        DB
	// MsgSender is optional, new orders are announced when it is set
	MsgSender MsgSender
	// BodyLimit in echo format, e.g. 25M
	BodyLimit string
	StaticDir string
}

const (
	requestIDHeader = "x-request-id"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	notFoundMsg     = "Purchase order not found"
)

// StartWebServer starts echo web service
func StartWebServer(data *Data) error {
	goapp.Log.Info().Msgf("Starting HTTP purchase order service at %d", data.Port)
	if err := validate(data); err != nil {
		return err
	}

	portStr := strconv.Itoa(data.Port)

	e := initRoutes(data)

	e.Server.Addr = ":" + portStr
	e.Server.ReadHeaderTimeout = 5 * time.Second
	e.Server.ReadTimeout = 180 * time.Second
	e.Server.WriteTimeout = 300 * time.Second

	gracehttp.SetLogger(log.New(goapp.Log, "", 0))

	return gracehttp.Serve(e.Server)
}

func validate(data *Data) error {
	if data.Processor == nil {
		return errors.New("no processor")
	}
	if data.DB == nil {
		return errors.New("no DB")
	}
	return nil
}

var promMdlw *prometheus.Prometheus

func init() {
	promMdlw = prometheus.NewPrometheus("po_upload", nil)
}

func initRoutes(data *Data) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = errorHandler
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())
	if data.BodyLimit != "" {
		e.Use(middleware.BodyLimit(data.BodyLimit))
	}
	promMdlw.Use(e)

	e.POST("/upload", upload(data))
	e.GET("/purchase-orders", listOrders(data))
	e.GET("/purchase-orders/:id", getOrder(data))
	e.DELETE("/purchase-orders/:id", deleteOrder(data))
	e.GET("/export/purchase-orders.csv", exportCSV(data))
	e.GET("/export/purchase-orders.xlsx", exportXLSX(data))
	e.GET("/costs", costs(data))
	e.GET("/health", health)
	e.GET("/live", live(data))
	if data.StaticDir != "" {
		e.Static("/", data.StaticDir)
	}

	goapp.Log.Info().Msg("Routes:")
	for _, r := range e.Routes() {
		goapp.Log.Info().Msgf("  %s %s", r.Method, r.Path)
	}
	return e
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code, msg := http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, api.ErrorResult{Error: msg})
	}
	if err != nil {
		goapp.Log.Error().Err(err).Send()
	}
}

func live(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{"service":"OK"}`))
	}
}

func health(c echo.Context) error {
	return c.JSON(http.StatusOK, api.Health{Status: "ok",
		Services: map[string]string{"elevenlabs": "connected", "openai": "connected", "database": "connected"}})
}

func upload(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		defer goapp.Estimate("upload method")()
		ctx := c.Request().Context()
		rID := extractRequestID(c.Request().Header)

		form, err := c.MultipartForm()
		if err != nil {
			goapp.Log.Warn().Err(err).Str("requestID", rID).Send()
			return echo.NewHTTPError(http.StatusBadRequest, "No audio file provided")
		}
		defer cleanFiles(form)

		audio, ext, err := readFile(form, api.PrmAudio)
		if err != nil {
			goapp.Log.Warn().Err(err).Str("requestID", rID).Send()
			return echo.NewHTTPError(http.StatusBadRequest, "No audio file provided")
		}
		goapp.Log.Info().Str("requestID", rID).Int("bytes", len(audio)).Str("ext", ext).Msg("request info")
		if !utils.SupportAudioExt(ext) {
			goapp.Log.Warn().Str("requestID", rID).Msgf("unusual audio extension '%s', passing as is", ext)
		}

		res, err := data.Processor.Process(ctx, audio)
		if err != nil {
			goapp.Log.Error().Err(err).Str("requestID", rID).Send()
			return c.JSON(http.StatusInternalServerError, api.ProcessError{Error: "Audio processing failed", Details: err.Error()})
		}

		if data.MsgSender != nil {
			if err := data.MsgSender.SendMessage(ctx, messages.NewOrderMessage(res.PurchaseOrderID, rID), messages.Inform); err != nil {
				goapp.Log.Error().Err(err).Str("requestID", rID).Msg("can't enqueue notification")
			}
		}
		return c.JSON(http.StatusOK, toUploadResult(res))
	}
}

func toUploadResult(res *pipeline.Result) *api.UploadResult {
	return &api.UploadResult{
		Transcription:   res.Transcription,
		FinalText:       res.FinalText,
		WasSpanish:      res.WasSpanish,
		WasTranslated:   res.WasTranslated,
		ExtractedData:   res.Fields,
		PurchaseOrderID: res.PurchaseOrderID,
		CostTracking: api.CostTracking{
			ElevenLabsCost: fmt.Sprintf("%.4f", res.Cost.ElevenLabsCost),
			OpenAICost:     fmt.Sprintf("%.4f", res.Cost.OpenAICost),
			TotalCost:      fmt.Sprintf("%.4f", res.Cost.Total()),
		},
	}
}

func listOrders(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		res, err := data.DB.ListPurchaseOrders(c.Request().Context())
		if err != nil {
			goapp.Log.Error().Err(err).Send()
			return echo.NewHTTPError(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, api.PurchaseOrders{PurchaseOrders: res})
	}
}

func getOrder(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		id, err := takeID(c)
		if err != nil {
			return err
		}
		res, err := data.DB.GetPurchaseOrder(c.Request().Context(), id)
		if err != nil {
			return mapDBError(err)
		}
		return c.JSON(http.StatusOK, res)
	}
}

func deleteOrder(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		id, err := takeID(c)
		if err != nil {
			return err
		}
		if err := data.DB.DeletePurchaseOrder(c.Request().Context(), id); err != nil {
			return mapDBError(err)
		}
		return c.JSON(http.StatusOK, api.MessageResult{Message: "Purchase order deleted successfully"})
	}
}

func exportCSV(data *Data) func(echo.Context) error {
	return exportOrders(data, "purchase_orders.csv", "text/csv", export.WriteCSV)
}

func exportXLSX(data *Data) func(echo.Context) error {
	return exportOrders(data, "purchase_orders.xlsx", xlsxContentType, export.WriteXLSX)
}

func exportOrders(data *Data, name, contentType string,
	writeF func(io.Writer, []*persistence.PurchaseOrder) error) func(echo.Context) error {
	return func(c echo.Context) error {
		defer goapp.Estimate("export " + name)()
		orders, err := data.DB.ListPurchaseOrdersForExport(c.Request().Context())
		if err != nil {
			goapp.Log.Error().Err(err).Send()
			return echo.NewHTTPError(http.StatusInternalServerError)
		}
		var b bytes.Buffer
		if err := writeF(&b, orders); err != nil {
			goapp.Log.Error().Err(err).Send()
			return echo.NewHTTPError(http.StatusInternalServerError)
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
		return c.Blob(http.StatusOK, contentType, b.Bytes())
	}
}

func costs(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		summary, err := data.DB.CostSummary(ctx)
		if err != nil {
			goapp.Log.Error().Err(err).Send()
			return echo.NewHTTPError(http.StatusInternalServerError)
		}
		daily, err := data.DB.DailyCostBreakdown(ctx)
		if err != nil {
			goapp.Log.Error().Err(err).Send()
			return echo.NewHTTPError(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, api.Costs{Summary: summary, DailyBreakdown: daily})
	}
}

func takeID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, notFoundMsg)
	}
	return id, nil
}

func mapDBError(err error) error {
	if errors.Is(err, persistence.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, notFoundMsg)
	}
	goapp.Log.Error().Err(err).Send()
	return echo.NewHTTPError(http.StatusInternalServerError)
}

func extractRequestID(header http.Header) string {
	if res := header.Get(requestIDHeader); res != "" {
		return res
	}
	return uuid.NewString()
}

func cleanFiles(f *multipart.Form) {
	if f != nil {
		_ = f.RemoveAll()
	}
}

func readFile(form *multipart.Form, paramName string) ([]byte, string, error) {
	fhs := form.File[paramName]
	if len(fhs) == 0 {
		return nil, "", errors.Errorf("no form file parameter '%s'", paramName)
	}
	f, err := fhs[0].Open()
	if err != nil {
		return nil, "", errors.Wrap(err, "can't open file")
	}
	defer f.Close()
	res, err := io.ReadAll(f)
	if err != nil {
		return nil, "", errors.Wrap(err, "can't read file")
	}
	return res, utils.AudioExt(fhs[0].Filename), nil
}
