package repository

import (
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/cartsim/internal/domain"
)

// Slot payloads are the JSON array of lines: [{"id":"<uuid>","qty":2}].

func encodeLines(lines []domain.CartLine) ([]byte, error) {
	data, err := json.Marshal(domain.CopyLines(lines))
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}
	return data, nil
}

func decodeLines(data []byte) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedCart, err)
	}
	return domain.CopyLines(lines), nil
}
