// Package seed applies an ordered, literal list of mutations to the customers
// collection.
//
// A Plan is a slice of Mutation records. Each record is one of four kinds,
// mirroring the write surface of the store one to one:
//
//	insertOne   one document
//	insertMany  a batch of documents, batch semantics left to the store
//	updateOne   $set patch on the document matching an id, no upsert
//	deleteOne   remove the document matching an id
//
// The Runner issues the records in order and waits for each before the next.
// It stops at the first failing record unless told to continue.
package seed

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopseed/shopseed/internal/customer"
)

// Kind tags a Mutation variant.
type Kind string

const (
	KindInsertOne  Kind = "insertOne"
	KindInsertMany Kind = "insertMany"
	KindUpdateOne  Kind = "updateOne"
	KindDeleteOne  Kind = "deleteOne"
)

// Mutation is a single plan step. Documents is set for the insert kinds; ID
// (and Patch for updates) for the id-matched kinds.
type Mutation struct {
	Kind      Kind                `json:"kind"`
	Documents []customer.Customer `json:"documents,omitempty"`
	ID        int                 `json:"id,omitempty"`
	Patch     customer.Patch      `json:"patch"`
}

func InsertOne(doc customer.Customer) Mutation {
	return Mutation{Kind: KindInsertOne, Documents: []customer.Customer{doc}}
}

func InsertMany(docs ...customer.Customer) Mutation {
	return Mutation{Kind: KindInsertMany, Documents: docs}
}

func UpdateOne(id int, patch customer.Patch) Mutation {
	return Mutation{Kind: KindUpdateOne, ID: id, Patch: patch}
}

func DeleteOne(id int) Mutation {
	return Mutation{Kind: KindDeleteOne, ID: id}
}

var (
	errNoDocuments = errors.New("insert without documents")
	errEmptyPatch  = errors.New("update without fields to set")
)

// Validate checks the record is well formed for its kind.
func (m Mutation) Validate() error {
	switch m.Kind {
	case KindInsertOne:
		if len(m.Documents) != 1 {
			return fmt.Errorf("insertOne takes exactly one document, got %d", len(m.Documents))
		}
	case KindInsertMany:
		// Ids repeated inside the batch are left to the store, which
		// rejects the second copy with a duplicate key error.
		if len(m.Documents) == 0 {
			return errNoDocuments
		}
	case KindUpdateOne:
		if m.Patch.IsEmpty() {
			return errEmptyPatch
		}
	case KindDeleteOne:
	default:
		return fmt.Errorf("unknown mutation kind %q", m.Kind)
	}
	return nil
}

// Target describes the ids the mutation addresses.
func (m Mutation) Target() string {
	switch m.Kind {
	case KindInsertOne, KindInsertMany:
		ids := make([]string, len(m.Documents))
		for i, d := range m.Documents {
			ids[i] = fmt.Sprintf("%d", d.ID)
		}
		return "_id in [" + strings.Join(ids, ",") + "]"
	default:
		return fmt.Sprintf("_id=%d", m.ID)
	}
}

func (m Mutation) String() string {
	switch m.Kind {
	case KindInsertOne, KindInsertMany:
		docs := make([]string, len(m.Documents))
		for i, d := range m.Documents {
			docs[i] = fmt.Sprintf("{id:%d, name:%q, age:%d, city:%q}", d.ID, d.Name, d.Age, d.City)
		}
		return string(m.Kind) + " " + strings.Join(docs, ", ")
	case KindUpdateOne:
		return fmt.Sprintf("updateOne {id:%d} $set %s", m.ID, m.Patch)
	case KindDeleteOne:
		return fmt.Sprintf("deleteOne {id:%d}", m.ID)
	}
	return string(m.Kind)
}
