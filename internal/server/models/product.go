package models

// Product is a listing owned by the user who created it. Only the owner
// may edit or delete it.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Stock       int64
	// Image is the stored reference returned by the image store
	// (a uuid-prefixed filename, not a raw upload name).
	Image   string
	OwnerID int64
}

// ProductWithRating pairs a product with its rating count, the sort key
// of the popularity listing.
type ProductWithRating struct {
	Product
	RatingCount int64
}
