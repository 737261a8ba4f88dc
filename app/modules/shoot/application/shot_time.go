package shootservice

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Clock is the time source of the service.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// futureTolerance absorbs clock skew between a client and the server.
const futureTolerance = time.Minute

var shotAtParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// parseShotAt reads the time a shoot happened. Empty input means now; otherwise
// RFC3339, a plain date, or natural language relative to now. Times in the future
// are rejected.
func parseShotAt(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return now.UTC(), nil
	}

	var parsed time.Time
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		parsed = t
	} else if t, err := time.ParseInLocation(time.DateOnly, input, now.Location()); err == nil {
		parsed = t
	} else {
		r, err := shotAtParser.Parse(strings.ToLower(input), now)
		if err != nil {
			return time.Time{}, fmt.Errorf("could not parse shot time %q: %w", input, err)
		}
		if r == nil {
			return time.Time{}, fmt.Errorf("could not recognize shot time %q", input)
		}
		parsed = r.Time
	}

	if parsed.After(now.Add(futureTolerance)) {
		return time.Time{}, fmt.Errorf("shot time %s is in the future", parsed.Format(time.RFC3339))
	}
	return parsed.UTC(), nil
}
