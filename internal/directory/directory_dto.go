package directory

import "github.com/google/uuid"

// ProfileResponse carries the display fields other modules join onto their records.
type ProfileResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department,omitempty"`
	Position   string    `json:"position,omitempty"`
	Role       string    `json:"role,omitempty"`
}

func mapToResponse(p Profile) ProfileResponse {
	return ProfileResponse{
		ID:         p.ID,
		Name:       p.FullName,
		Email:      p.Email,
		Department: p.Department,
		Position:   p.Position,
		Role:       p.Role,
	}
}
