package telegram

import (
	"strings"
	"testing"

	"github.com/stockpulse/newswire/pkg/models"
)

func TestFormatAlert(t *testing.T) {
	tests := []struct {
		name  string
		alert models.Alert
		want  []string
	}{
		{
			name: "buy alert",
			alert: models.Alert{
				Action:    models.ActionBuy,
				Tickers:   []string{"RELIANCE.NS"},
				Title:     "Reliance shares jump on strong earnings",
				Sentiment: 0.66,
			},
			want: []string{"📈", "*BUY*", "RELIANCE.NS", "Reliance shares jump", "0.66"},
		},
		{
			name: "sell alert with multiple tickers",
			alert: models.Alert{
				Action:    models.ActionSell,
				Tickers:   []string{"SBIN.NS", "ICICIBANK.NS"},
				Title:     "Bank stocks slump after penalty",
				Sentiment: -0.55,
			},
			want: []string{"📉", "*SELL*", "SBIN.NS, ICICIBANK.NS", "-0.55"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatAlert(tt.alert)

			for _, fragment := range tt.want {
				if !strings.Contains(got, fragment) {
					t.Errorf("message %q missing fragment %q", got, fragment)
				}
			}
		})
	}
}

func TestNewNotifierRequiresToken(t *testing.T) {
	if _, err := NewNotifier("", 42); err == nil {
		t.Fatal("expected error for empty bot token")
	}
}
