// Package report renders the outcome of a decode run as text or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cbsinteractive/pkg/timecode"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ysh86/LTCtools/ltc"
)

// Message is an informational log entry with its verbosity level.
type Message struct {
	Level int
	Text  string
}

// ErrorMessage is the error that ended the run, with its result code.
type ErrorMessage struct {
	Code int
	Text string
}

// Collector is a logrus hook that keeps every entry for the report.
type Collector struct {
	mu       sync.Mutex
	messages []Message
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (c *Collector) Fire(entry *logrus.Entry) error {
	text := entry.Message
	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString(text)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
		}
		text = b.String()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, Message{Level: verbosity(entry.Level), Text: text})
	return nil
}

// Messages returns the collected entries in order.
func (c *Collector) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

// verbosity is the -v count at which an entry of the level is shown
func verbosity(level logrus.Level) int {
	switch level {
	case logrus.InfoLevel:
		return 1
	case logrus.DebugLevel:
		return 2
	case logrus.TraceLevel:
		return 3
	}
	return 0
}

// Report is the structured outcome of a decode run.
type Report struct {
	Success                bool
	Result                 int
	ErrorMsg               string
	Info                   []Message
	Errors                 []ErrorMessage
	Ranges                 [][2]string
	Seconds                timecode.Splice
	DigitsBeforeFirstFrame int
	Start                  string
	End                    string
	FPS                    int
}

// Build assembles the report from a decode result, the error that ended the run and the collected log.
func Build(result *ltc.Result, err error, collector *Collector) *Report {
	r := &Report{
		Result:  ltc.Code(err),
		Success: err == nil,
		Ranges:  [][2]string{},
		Seconds: timecode.Splice{},
	}

	if collector != nil {
		r.Info = collector.Messages()
	}
	if err != nil {
		r.ErrorMsg = err.Error()
		r.Errors = append(r.Errors, ErrorMessage{Code: r.Result, Text: r.ErrorMsg})
	}

	if result == nil {
		return r
	}
	r.FPS = result.FPS
	r.DigitsBeforeFirstFrame = result.DiscardedAtStart
	if result.Found {
		r.Start = result.First.String()
		r.End = result.Last.String()
	}
	for _, rg := range result.Ranges {
		r.Ranges = append(r.Ranges, [2]string{rg.Start.String(), rg.End.String()})
		if result.FPS > 0 {
			// the end frame is included in the range
			end := rg.End.InSeconds(0) + float64(rg.End.Frames+1)/float64(result.FPS)
			r.Seconds = append(r.Seconds, timecode.Range{rg.Start.InSeconds(result.FPS), end})
		}
	}
	return r
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(r), "cannot write report")
}

// WriteText writes the ranges, one per line, and a summary.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder
	for _, rg := range r.Ranges {
		fmt.Fprintf(&b, "%s - %s\n", rg[0], rg[1])
	}
	if r.Success {
		fmt.Fprintf(&b, "%d range(s), %v of timecode at %dfps, %d bits before the first frame\n",
			len(r.Ranges), r.Seconds.Size().Round(time.Millisecond), r.FPS, r.DigitsBeforeFirstFrame)
	} else {
		fmt.Fprintf(&b, "error %d: %s\n", r.Result, r.ErrorMsg)
	}
	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "cannot write report")
}
