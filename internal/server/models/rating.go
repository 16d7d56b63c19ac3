package models

// Rating is a single user's one-time endorsement of one product:
// existence, not a numeric score. The (UserID, ProductID) pair is unique,
// enforced by a storage constraint.
type Rating struct {
	ID        int64
	UserID    int64
	ProductID int64
}
