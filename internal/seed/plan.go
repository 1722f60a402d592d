package seed

import (
	"fmt"

	"github.com/shopseed/shopseed/internal/customer"
)

// Plan is an ordered list of mutations.
type Plan []Mutation

// DefaultPlan returns the fixed customers seed: add Sanjay, set customer 1's
// age to 31, drop customer 2, then add Meera and Rishi as one batch.
func DefaultPlan() Plan {
	return Plan{
		InsertOne(customer.Customer{ID: 3, Name: "Sanjay", Age: 40, City: "Delhi"}),
		UpdateOne(1, customer.Patch{Age: customer.Int(31)}),
		DeleteOne(2),
		InsertMany(
			customer.Customer{ID: 4, Name: "Meera", Age: 25, City: "Hyderabad"},
			customer.Customer{ID: 5, Name: "Rishi", Age: 27, City: "Chennai"},
		),
	}
}

// Validate checks every step.
func (p Plan) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("plan has no steps")
	}
	for i, m := range p {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}
