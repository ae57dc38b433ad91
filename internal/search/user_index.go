// Package search maintains the Elasticsearch side of the user store:
// a denormalized document per user serving the keyword search over
// profile names and personal identification numbers.
package search

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/identity-service/internal/domain/entity"
)

type UserIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewUserIndex(es *elasticsearch.Client, index string) *UserIndex {
	return &UserIndex{ES: es, Index: index}
}

// IndexUser writes the user's searchable view to the index.
func (x *UserIndex) IndexUser(ctx context.Context, u *entity.User) error {
	doc := map[string]any{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
	}
	if u.Profile != nil {
		doc["firstname"] = u.Profile.Firstname
		doc["lastname"] = u.Profile.Lastname
		doc["personal_identification_number"] = u.Profile.PersonalIdentificationNumber
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return &esError{status: res.Status()}
	}
	return nil
}

// DeleteUser removes the user's document; an already-missing document is
// not an error.
func (x *UserIndex) DeleteUser(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.Index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return &esError{status: res.Status()}
	}
	return nil
}

// Search runs a multi_match over names and the personal identification
// number and returns matching user IDs.
func (x *UserIndex) Search(ctx context.Context, keyword string, page, size int) ([]string, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	if page < 0 {
		page = 0
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  keyword,
				"fields": []string{"firstname", "lastname", "personal_identification_number"},
			},
		},
		"from": page * size,
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, &esError{status: res.Status()}
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

type esError struct {
	status string
}

func (e *esError) Error() string {
	return "elasticsearch: " + e.status
}
