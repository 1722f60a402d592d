package seed

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopseed/shopseed/internal/customer"
	"github.com/shopseed/shopseed/internal/customer/repository"
)

// Violation is a post-condition of the plan that the store does not satisfy.
type Violation struct {
	ID   int    `json:"id"`
	Want string `json:"want"`
	Got  string `json:"got"`
}

func (v Violation) String() string {
	return fmt.Sprintf("_id=%d: want %s, got %s", v.ID, v.Want, v.Got)
}

// expectation is what the plan guarantees about one id after a successful
// run. Exactly one of absent, doc or fields applies.
type expectation struct {
	absent bool
	doc    *customer.Customer
	fields customer.Patch
}

func (e expectation) String() string {
	switch {
	case e.absent:
		return "absent"
	case e.doc != nil:
		return fmt.Sprintf("%+v", *e.doc)
	}
	return "fields " + e.fields.String()
}

// expectations folds the plan into per-id post-conditions. An update of an id
// the plan never inserted only constrains the patched fields, and only when
// the document exists: updates never create documents.
func expectations(plan Plan) map[int]expectation {
	out := map[int]expectation{}
	for _, m := range plan {
		switch m.Kind {
		case KindInsertOne, KindInsertMany:
			for _, d := range m.Documents {
				doc := d
				out[d.ID] = expectation{doc: &doc}
			}
		case KindUpdateOne:
			e, ok := out[m.ID]
			switch {
			case ok && e.absent:
			case ok && e.doc != nil:
				m.Patch.Apply(e.doc)
			default:
				out[m.ID] = expectation{fields: mergePatch(e.fields, m.Patch)}
			}
		case KindDeleteOne:
			out[m.ID] = expectation{absent: true}
		}
	}
	return out
}

func mergePatch(base, over customer.Patch) customer.Patch {
	if over.Name != nil {
		base.Name = over.Name
	}
	if over.Age != nil {
		base.Age = over.Age
	}
	if over.City != nil {
		base.City = over.City
	}
	return base
}

// Verify checks the store against the state a successful run of plan leaves
// behind and returns every mismatch, ordered by id.
func Verify(ctx context.Context, store repository.Reader, plan Plan) ([]Violation, error) {
	exp := expectations(plan)
	ids := make([]int, 0, len(exp))
	for id := range exp {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var out []Violation
	for _, id := range ids {
		e := exp[id]
		got, err := store.Get(ctx, id)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("verify _id=%d: %w", id, err)
		}
		found := err == nil

		switch {
		case e.absent:
			if found {
				out = append(out, Violation{ID: id, Want: e.String(), Got: fmt.Sprintf("%+v", *got)})
			}
		case e.doc != nil && !found:
			out = append(out, Violation{ID: id, Want: e.String(), Got: "absent"})
		case e.doc != nil:
			if *got != *e.doc {
				out = append(out, Violation{ID: id, Want: e.String(), Got: fmt.Sprintf("%+v", *got)})
			}
		case found:
			if !e.fields.Matches(*got) {
				out = append(out, Violation{ID: id, Want: e.String(), Got: fmt.Sprintf("%+v", *got)})
			}
		}
	}
	return out, nil
}
