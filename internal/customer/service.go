package customer

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/customer/entity"
	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/pkg/utilities"
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

// Service cleans raw customer records.
type Service struct {
	logger *zap.SugaredLogger
}

// NewService constructs a Service.
func NewService(logger *zap.SugaredLogger) *Service {
	return &Service{logger: logger}
}

// Clean lowercases emails, keeps the first record per email and per
// customer_id in input order, drops records whose email is not a plausible
// address and parses join dates. A malformed join date fails the whole batch.
func (s *Service) Clean(raw []entity.RawCustomer) ([]entity.Customer, error) {
	out := make([]entity.Customer, 0, len(raw))
	seenEmail := make(map[string]struct{}, len(raw))
	seenID := make(map[string]struct{}, len(raw))
	var dupes, invalid int

	for _, rc := range raw {
		email := strings.ToLower(rc.Email)
		if _, ok := seenEmail[email]; ok {
			dupes++
			continue
		}
		seenEmail[email] = struct{}{}

		if !emailPattern.MatchString(email) {
			invalid++
			continue
		}
		if _, ok := seenID[rc.CustomerID]; ok {
			dupes++
			continue
		}

		joined, err := utilities.ParseDate(rc.JoinDate)
		if err != nil {
			return nil, fmt.Errorf("customer %s join_date: %w", rc.CustomerID, err)
		}
		seenID[rc.CustomerID] = struct{}{}
		out = append(out, entity.Customer{
			CustomerID: rc.CustomerID,
			FirstName:  rc.FirstName,
			LastName:   rc.LastName,
			Email:      email,
			City:       rc.City,
			JoinDate:   joined,
		})
	}

	s.logger.Debugw("customers cleaned",
		"in", len(raw),
		"out", len(out),
		"duplicates", dupes,
		"invalid_email", invalid,
	)
	return out, nil
}
