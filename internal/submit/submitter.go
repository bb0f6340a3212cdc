// Package submit carries finished orders across the submission boundary to
// whatever records them outside the storefront process.
package submit

import (
	"context"
	"encoding/json"
	"log"

	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/order"
)

type Submitter interface {
	Submit(ctx context.Context, o *order.Order) error
}

// LogSubmitter writes the order to the log and nothing else. It is the
// default when no transport is configured, so a misconfigured shop still
// leaves a findable record of every order.
type LogSubmitter struct {
	logger *log.Logger
}

func NewLogSubmitter(logger *log.Logger) *LogSubmitter {
	return &LogSubmitter{logger: logger}
}

func (s *LogSubmitter) Submit(ctx context.Context, o *order.Order) error {
	body, err := json.Marshal(o)
	if err != nil {
		return err
	}
	s.logger.Printf("order placed: %s", body)
	return nil
}
