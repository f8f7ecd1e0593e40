package esadapter

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/heptiolabs/healthcheck"
	elastic "github.com/olivere/elastic/v7"
)

// DefaultHealthTimeout bounds a single health check request.
var DefaultHealthTimeout = 5 * time.Second

// LiveCheck returns a healthcheck.Check that passes while the connection's
// cluster answers a HEAD request to /.
func (a *Adapter) LiveCheck(connection string) healthcheck.Check {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), DefaultHealthTimeout)
		defer cancel()

		c, err := a.connection(connection)
		if err != nil {
			return err
		}
		client, err := c.Client(ctx)
		if err != nil {
			return err
		}
		res, err := client.PerformRequest(ctx, elastic.PerformRequestOptions{
			Method: "HEAD",
			Path:   "/",
		})
		if err != nil {
			return err
		}
		if res.StatusCode != http.StatusOK {
			return errors.New("HEAD request returned non-200 status code")
		}
		return nil
	}
}

// ReadyCheck returns a healthcheck.Check that passes once the connection's
// client handle has resolved and the cluster answers a ping.
func (a *Adapter) ReadyCheck(connection string) healthcheck.Check {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), DefaultHealthTimeout)
		defer cancel()

		c, err := a.connection(connection)
		if err != nil {
			return err
		}
		client, err := c.Client(ctx)
		if err != nil {
			return err
		}
		_, _, err = client.Ping(c.pingURL()).Do(ctx)
		return err
	}
}
