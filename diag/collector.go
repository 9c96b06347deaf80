package diag

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Collector accumulates warnings for one conversion run and mirrors each one
// to a logger.
type Collector struct {
	log    logrus.FieldLogger
	issues Issues
}

// NewCollector returns a Collector logging through log. A nil log discards
// log output but still collects issues.
func NewCollector(log logrus.FieldLogger) *Collector {
	return &Collector{log: log}
}

// Warnf records a warning at path.
func (c *Collector) Warnf(path, code, format string, args ...any) {
	c.Add(Issue{Path: path, Code: code, Message: fmt.Sprintf(format, args...)})
}

// Add records an issue.
func (c *Collector) Add(it Issue) {
	c.issues = append(c.issues, it)
	if c.log == nil {
		return
	}
	entry := c.log.WithFields(logrus.Fields{
		"code":    it.Code,
		"pointer": it.Path,
	})
	if it.Cause != nil {
		entry = entry.WithError(it.Cause)
	}
	entry.Warn(it.Message)
}

func (c *Collector) HasWarnings() bool { return len(c.issues) > 0 }

// Warnings returns a copy of the collected issues.
func (c *Collector) Warnings() Issues { return append(Issues(nil), c.issues...) }
