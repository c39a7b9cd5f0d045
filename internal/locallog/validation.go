package locallog

import (
	"fmt"
	"time"

	"github.com/dagbolade/proposal-box/internal/answer"
)

func validateRecord(rec answer.Record) error {
	if _, err := answer.ParseChoice(rec.Choice); err != nil {
		return err
	}

	if _, err := time.Parse(time.RFC3339Nano, rec.Time); err != nil {
		return fmt.Errorf("time must be ISO-8601: %w", err)
	}

	return nil
}
