package client

import (
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/redhat-openshift-ecosystem/semaphore-report/internal/semaphore"
)

// CreateClient creates the Semaphore API client from the global settings
// (api-url, timeout). An empty token falls back to the auth-token setting.
func CreateClient(token string) (*semaphore.Client, error) {
	if token == "" {
		token = viper.GetString("auth-token")
	}
	opts, err := clientOptions()
	if err != nil {
		return nil, err
	}
	c, err := semaphore.NewClient(token, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create the Semaphore client")
	}
	return c, nil
}

// CreateDownloadClient creates a client without credentials to download the
// full logs of truncated threads.
func CreateDownloadClient() (*semaphore.Client, error) {
	opts, err := clientOptions()
	if err != nil {
		return nil, err
	}
	return semaphore.NewDownloadClient(opts...)
}

func clientOptions() ([]semaphore.Option, error) {
	opts := []semaphore.Option{}
	if apiURL := viper.GetString("api-url"); apiURL != "" {
		u, err := url.Parse(apiURL)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid api-url %q", apiURL)
		}
		opts = append(opts, semaphore.WithBaseURL(u))
	}
	if timeout := viper.GetInt("timeout"); timeout > 0 {
		opts = append(opts, semaphore.WithTimeout(time.Duration(timeout)*time.Second))
	}
	return opts, nil
}
