// Package posts defines the post entity and how the post list is fetched.
package posts

import (
	"context"

	"github.com/five82/postboard/internal/netclient"
)

// DefaultEndpoint serves a JSON array of posts.
const DefaultEndpoint = "https://jsonplaceholder.typicode.com/posts"

// Post is a single entry of the post list. ID is unique and stable.
type Post struct {
	OwnerID int    `json:"userId"`
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Body    string `json:"body"`
}

// Fetch GETs endpoint through r and decodes the post list. A JSON null body
// yields an empty list.
func Fetch(ctx context.Context, r netclient.Requester, endpoint string) ([]Post, error) {
	list, err := netclient.Decode[[]Post](ctx, r, endpoint, netclient.GET)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Post{}
	}
	return list, nil
}
