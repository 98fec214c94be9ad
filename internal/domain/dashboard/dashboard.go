// Package dashboard declares the seams toward the dataset and training
// surfaces. Those endpoints live outside this service; they consume the
// identity the auth core produces and must re-validate it on every call
// rather than trusting page routing.
package dashboard

import (
	"context"
	"io"

	"mlboard/backend/internal/domain/auth"
)

// DatasetService ingests and previews datasets on behalf of a verified user.
type DatasetService interface {
	Upload(ctx context.Context, user *auth.User, name string, data io.Reader) error
	Preview(ctx context.Context, user *auth.User, name string, rows int) ([][]string, error)
}

// TrainingService triggers remote model training for a verified user.
type TrainingService interface {
	Train(ctx context.Context, user *auth.User, dataset string, target string) (runID string, err error)
}
