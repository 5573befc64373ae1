package duration

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

type Duration time.Duration

var daySuffixes = []struct {
	Suffix     string
	Multiplier time.Duration
}{
	{Suffix: "d", Multiplier: time.Hour * 24},
	{Suffix: "w", Multiplier: time.Hour * 24 * 7},
	{Suffix: "M", Multiplier: time.Hour * 24 * 30},
	{Suffix: "y", Multiplier: time.Hour * 24 * 365},
	{Suffix: "", Multiplier: time.Second},
}

// ParseDuration accepts the stdlib forms ("10m", "1h30m") plus day-scale
// suffixes ("30d", "1w") used by retention settings.
func ParseDuration(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err == nil {
		return d, nil
	}
	return parseDurationSuffixes(value)
}

func parseDurationSuffixes(value string) (time.Duration, error) {
	var period float64

	for _, suffix := range daySuffixes {
		if strings.HasSuffix(value, suffix.Suffix) {
			numberString := value[:len(value)-len(suffix.Suffix)]
			var err error
			period, err = strconv.ParseFloat(numberString, 64)
			if err != nil {
				return time.Duration(0), err
			}
			period *= float64(suffix.Multiplier)
			break
		}
	}

	return time.Duration(period), nil
}

func (d *Duration) String() string {
	return time.Duration(*d).String()
}

func (d *Duration) Set(s string) error {
	v, err := ParseDuration(s)
	*d = Duration(v)
	return err
}

func (d *Duration) Type() string {
	return "Duration"
}

func (d *Duration) UnmarshalText(text []byte) error {
	return d.Set(string(text))
}

func newDurationValue(val time.Duration, p *time.Duration) *Duration {
	*p = val
	return (*Duration)(p)
}

func DurationVar(f *pflag.FlagSet, p *time.Duration, name string, value time.Duration, usage string) {
	f.VarP(newDurationValue(value, p), name, "", usage)
}
