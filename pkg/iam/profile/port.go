package profile

import (
	"context"

	"github.com/Abraxas-365/careerpath/pkg/kernel"
)

// ProfileRepository define el contrato para la persistencia de perfiles
type ProfileRepository interface {
	FindByUser(ctx context.Context, userID kernel.UserID) (*Profile, error)
	FindAll(ctx context.Context) ([]*Profile, error)
	FindByUserIDs(ctx context.Context, userIDs []kernel.UserID) ([]*Profile, error)
	SetActive(ctx context.Context, userID kernel.UserID, active bool) error
}
