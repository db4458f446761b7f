package configuration

import (
	"time"

	"github.com/pkg/errors"
)

const defaultQueryTimeout = 30 * time.Second

func (c *ServerConfiguration) Validate() error {
	if c.Port == 0 {
		return errors.New("Port must be provided")
	}
	if c.QueryTimeout == 0 {
		c.QueryTimeout = defaultQueryTimeout
	}
	return nil
}
