package inform

import (
	"testing"
	"time"

	"github.com/CristianNieto3/Technician-Memo/internal/pkg/persistence"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/utils"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(from string, to []string) *viper.Viper {
	c := viper.New()
	c.Set("smtp.from", from)
	c.Set("inform.to", to)
	return c
}

func TestNewOrderEmailMaker(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      []string
		wantErr bool
	}{
		{name: "OK", from: "f@o.lt", to: []string{"a@o.lt", " b@o.lt "}},
		{name: "No to", from: "f@o.lt", to: []string{" "}, wantErr: true},
		{name: "No from", from: "", to: []string{"a@o.lt"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewOrderEmailMaker(newTestConfig(tt.from, tt.to), nil)
			assert.Equal(t, tt.wantErr, err != nil)
			if !tt.wantErr {
				require.NotNil(t, got)
				assert.Equal(t, []string{"a@o.lt", "b@o.lt"}, got.to)
			}
		})
	}
}

func TestMake(t *testing.T) {
	m, err := NewOrderEmailMaker(newTestConfig("f@o.lt", []string{"a@o.lt"}), time.FixedZone("CST", -6*3600))
	require.Nil(t, err)

	e, err := m.Make(&persistence.PurchaseOrder{ID: 12, Date: "2025-01-02", Time: "10:00:00",
		Description: utils.StrPtr("LA Pump"), UnitNumber: utils.StrPtr("4555"), RawTranscription: "I need a pump",
		CreatedAt: time.Date(2025, 1, 2, 16, 0, 0, 0, time.UTC)})

	require.Nil(t, err)
	assert.Equal(t, "f@o.lt", e.From)
	assert.Equal(t, []string{"a@o.lt"}, e.To)
	assert.Equal(t, "Purchase order #12: LA Pump", e.Subject)
	txt := string(e.Text)
	assert.Contains(t, txt, "Unit Number: 4555")
	assert.Contains(t, txt, "Customer: -")
	assert.Contains(t, txt, "I need a pump")
	assert.Contains(t, txt, "2025-01-02T10:00:00-06:00")
}

func TestMake_Nil(t *testing.T) {
	m, _ := NewOrderEmailMaker(newTestConfig("f@o.lt", []string{"a@o.lt"}), nil)
	_, err := m.Make(nil)
	assert.NotNil(t, err)
}
