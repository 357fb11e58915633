package repo

import (
	"encoding/json"
	"fmt"

	"github.com/pkordes/transitlog-sink/internal/domain"
)

// alertData is the document stored in alert.data.
// The translation arrays are always present, even when empty.
type alertData struct {
	Category     string               `json:"category"`
	Impact       string               `json:"impact"`
	Priority     string               `json:"priority"`
	Titles       []domain.Translation `json:"titles"`
	Descriptions []domain.Translation `json:"descriptions"`
	URLs         []domain.Translation `json:"urls"`
}

// marshalAlertData builds the alert.data document for b.
func marshalAlertData(b domain.Bulletin) ([]byte, error) {
	doc := alertData{
		Category:     b.Category,
		Impact:       b.Impact,
		Priority:     b.Priority,
		Titles:       nonNil(b.Titles),
		Descriptions: nonNil(b.Descriptions),
		URLs:         nonNil(b.URLs),
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal alert data: %w", err)
	}
	return out, nil
}

func nonNil(ts []domain.Translation) []domain.Translation {
	if ts == nil {
		return []domain.Translation{}
	}
	return ts
}
