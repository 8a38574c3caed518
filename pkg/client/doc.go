// Package client provides a Go client for the searchgate HTTP API.
//
// A client is scoped to one server; document and search calls are scoped
// to a tenant:
//
//	c, _ := client.New("http://localhost:8080", client.WithAPIKey("secret"))
//	doc, _ := c.Documents("acme").Create(ctx, client.Document{
//	    Title:   "Payment gateway runbook",
//	    Content: "When the gateway times out ...",
//	    Tags:    []string{"runbook"},
//	})
//	res, _ := c.Search(ctx, "acme", client.SearchRequest{Query: "gateway timeout"})
//
// Errors returned by the server map to sentinel errors checkable with
// errors.Is; see errors.go.
package client
