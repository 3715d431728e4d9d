package main

import (
	"fmt"

	"github.com/google/uuid"
)

func parseDocID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid document id %q: %w", s, err)
	}
	return id, nil
}
