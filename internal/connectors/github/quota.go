package github

import (
	"context"
	"time"

	"github.com/custodia-labs/gitslurp/internal/core/domain"
)

// Quota is the core REST quota of one credential.
type Quota struct {
	Token     string
	Login     string
	Limit     int
	Remaining int
	ResetAt   time.Time
	Err       error
}

// Usable reports whether the credential has more than MinBuffer requests left.
func (q Quota) Usable() bool {
	return q.Err == nil && q.Remaining > MinBuffer
}

// CheckQuota reports the remaining core quota for each token, in order.
// Per-token failures are recorded in Quota.Err rather than returned.
func CheckQuota(ctx context.Context, cfg *Config, tokens []string) []Quota {
	conn := &Connector{config: cfg}

	quotas := make([]Quota, 0, len(tokens))
	for _, token := range tokens {
		q := Quota{Token: domain.Mask(token)}

		client, err := conn.newClient(ctx, token)
		if err != nil {
			q.Err = err
			quotas = append(quotas, q)
			continue
		}

		if token != "" {
			login, err := client.ValidateCredentials(ctx)
			if err != nil {
				q.Err = err
				quotas = append(quotas, q)
				continue
			}
			q.Login = login
		}

		limits, err := client.RateLimit(ctx)
		if err != nil {
			q.Err = err
		} else if core := limits.GetCore(); core != nil {
			q.Limit = core.Limit
			q.Remaining = core.Remaining
			q.ResetAt = core.Reset.Time
		}
		quotas = append(quotas, q)
	}
	return quotas
}
