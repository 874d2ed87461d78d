package inform

import (
	"fmt"
	"strings"
	"time"

	"github.com/CristianNieto3/Technician-Memo/internal/pkg/persistence"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/utils"
	"github.com/jordan-wright/email"
	"github.com/spf13/viper"
)

// OrderEmailMaker prepares purchase order notifications
type OrderEmailMaker struct {
	from     string
	to       []string
	location *time.Location
}

// NewOrderEmailMaker creates the maker from config
func NewOrderEmailMaker(c *viper.Viper, location *time.Location) (*OrderEmailMaker, error) {
	res := &OrderEmailMaker{from: c.GetString("smtp.from"), location: location}
	for _, s := range c.GetStringSlice("inform.to") {
		if s = strings.TrimSpace(s); s != "" {
			res.to = append(res.to, s)
		}
	}
	if len(res.to) == 0 {
		return nil, fmt.Errorf("no inform.to")
	}
	if res.from == "" {
		return nil, fmt.Errorf("no smtp.from")
	}
	return res, nil
}

// Make prepares the email
func (m *OrderEmailMaker) Make(po *persistence.PurchaseOrder) (*email.Email, error) {
	if po == nil {
		return nil, fmt.Errorf("no purchase order")
	}
	res := email.NewEmail()
	res.From = m.from
	res.To = m.to
	res.Subject = fmt.Sprintf("Purchase order #%d: %s", po.ID, orEmpty(po.Description))
	created := po.CreatedAt
	if m.location != nil {
		created = created.In(m.location)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "New purchase order #%d\n\n", po.ID)
	fmt.Fprintf(&sb, "Date: %s %s\n", po.Date, po.Time)
	fmt.Fprintf(&sb, "Description: %s\n", orEmpty(po.Description))
	fmt.Fprintf(&sb, "Unit Number: %s\n", orEmpty(po.UnitNumber))
	fmt.Fprintf(&sb, "Customer: %s\n", orEmpty(po.Customer))
	fmt.Fprintf(&sb, "Vendor/Supplier: %s\n", orEmpty(po.VendorSupplier))
	fmt.Fprintf(&sb, "\nMemo:\n%s\n", po.RawTranscription)
	if !created.IsZero() {
		fmt.Fprintf(&sb, "\nCreated: %s\n", created.Format(time.RFC3339))
	}
	res.Text = []byte(sb.String())
	return res, nil
}

func orEmpty(s *string) string {
	if v := utils.FromStrPtr(s); v != "" {
		return v
	}
	return "-"
}
