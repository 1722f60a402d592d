package customer

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Customer is a document of the shop.customers collection. The integer id is
// the collection primary key and is stored as Mongo _id.
type Customer struct {
	ID   int    `json:"id" bson:"_id"`
	Name string `json:"name" bson:"name"`
	Age  int    `json:"age" bson:"age"`
	City string `json:"city" bson:"city"`
}

// Patch is a field-set patch for an upsert-free update. Only non-nil fields
// are written.
type Patch struct {
	Name *string `json:"name,omitempty"`
	Age  *int    `json:"age,omitempty"`
	City *string `json:"city,omitempty"`
}

// IsEmpty reports whether the patch sets no field.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Age == nil && p.City == nil
}

// Fields returns the $set document for the patch.
func (p Patch) Fields() bson.M {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Age != nil {
		set["age"] = *p.Age
	}
	if p.City != nil {
		set["city"] = *p.City
	}
	return set
}

// Apply writes the patched fields into c and reports whether anything changed.
func (p Patch) Apply(c *Customer) bool {
	changed := false
	if p.Name != nil && c.Name != *p.Name {
		c.Name = *p.Name
		changed = true
	}
	if p.Age != nil && c.Age != *p.Age {
		c.Age = *p.Age
		changed = true
	}
	if p.City != nil && c.City != *p.City {
		c.City = *p.City
		changed = true
	}
	return changed
}

// Matches reports whether every patched field already holds the patched value.
func (p Patch) Matches(c Customer) bool {
	cp := c
	return !p.Apply(&cp)
}

func (p Patch) String() string {
	parts := make([]string, 0, 3)
	if p.Name != nil {
		parts = append(parts, fmt.Sprintf("name=%q", *p.Name))
	}
	if p.Age != nil {
		parts = append(parts, fmt.Sprintf("age=%d", *p.Age))
	}
	if p.City != nil {
		parts = append(parts, fmt.Sprintf("city=%q", *p.City))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Int and String return pointers for patch literals.
func Int(v int) *int          { return &v }
func String(v string) *string { return &v }
