package domain

// Customer is the read-only view of the owning customer, resolved from the
// external customer directory. Never required for monetary correctness.
type Customer struct {
	ID       string
	FullName string
	Phone    string
}
