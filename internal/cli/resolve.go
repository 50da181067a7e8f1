package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/ganttline/internal/service"
)

// resolveProjectID accepts a full id, a short id in any case, or a unique
// id prefix.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project ID is required")
	}
	if app.Projects == nil {
		return input, nil
	}

	p, err := app.Projects.Resolve(ctx, input)
	if err == nil {
		return p.ID, nil
	}
	if !errors.Is(err, service.ErrNotFound) {
		return "", err
	}

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, p := range projects {
		if strings.EqualFold(p.ShortID, input) {
			return p.ID, nil
		}
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
