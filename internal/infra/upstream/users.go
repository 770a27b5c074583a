package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
)

// --- Users (implements port.UserFetcher) ---

// GetUser resolves a user id to its profile. The top bar consumes only
// the name. Routed through the gateway like every other call so the base
// URL stays configurable in one place.
func (c *Client) GetUser(ctx context.Context, id int) (*domain.User, error) {
	var out domain.User
	err := c.get(ctx, "fetch user", fmt.Sprintf("/users/%d", id), nil, &out)
	if err != nil {
		var up *domain.ErrUpstream
		if errors.As(err, &up) && up.Status == http.StatusNotFound {
			return nil, &domain.ErrNotFound{Resource: "user", ID: fmt.Sprint(id)}
		}
		return nil, err
	}
	if out.ID == 0 {
		out.ID = id
	}
	return &out, nil
}
