package repository

import "context"

// ProfileRepository exposes the profile-side uniqueness probe. Profile
// persistence itself rides along with the owning user in UserRepository.
type ProfileRepository interface {
	ExistsByPersonalIdentificationNumber(ctx context.Context, pin string) (bool, error)
}
