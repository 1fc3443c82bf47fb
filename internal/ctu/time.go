package ctu

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

const dayMicros = int64(TotalSeconds) * 1_000_000

// Time is a CTU wall-clock reading. It is only meaningful together with the
// reference day of the solar day it was computed against.
type Time struct {
	Hour        int
	Minute      int
	Second      int
	Microsecond int
}

// TimeFromSeconds splits CTU seconds since solar midnight into a Time. The
// value is normalised modulo 24 h and rounded to the nearest microsecond.
// Rounding never carries a reading past 23:59:59.999999 into the next day.
func TimeFromSeconds(sec float64) Time {
	sec = math.Mod(sec, TotalSeconds)
	if sec < 0 {
		sec += TotalSeconds
	}
	us := int64(math.Round(sec * 1e6))
	if us >= dayMicros {
		us = dayMicros - 1
	}

	s := us / 1_000_000
	return Time{
		Hour:        int(s / 3600),
		Minute:      int(s % 3600 / 60),
		Second:      int(s % 60),
		Microsecond: int(us % 1_000_000),
	}
}

// Seconds returns the reading as seconds since solar midnight.
func (t Time) Seconds() float64 {
	whole := t.Hour*3600 + t.Minute*60 + t.Second
	return float64(whole) + float64(t.Microsecond)/1e6
}

// Valid reports whether every field is within its clock range.
func (t Time) Valid() bool {
	return t.Hour >= 0 && t.Hour < 24 &&
		t.Minute >= 0 && t.Minute < 60 &&
		t.Second >= 0 && t.Second < 60 &&
		t.Microsecond >= 0 && t.Microsecond < 1_000_000
}

// InVariableHour reports whether the reading falls in the stretched last hour.
func (t Time) InVariableHour() bool {
	return t.Hour >= FixedHours
}

// Before reports whether t is earlier than u on the same CTU day.
func (t Time) Before(u Time) bool {
	return t.Seconds() < u.Seconds()
}

// String formats the reading as HH:MM:SS.ffffff.
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%06d", t.Hour, t.Minute, t.Second, t.Microsecond)
}

// Clock formats the reading as HH:MM:SS.
func (t Time) Clock() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Short formats the reading as HH:MM.
func (t Time) Short() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTime parses HH:MM, HH:MM:SS or HH:MM:SS.ffffff.
func ParseTime(s string) (Time, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Time{}, fmt.Errorf("%w: %q, want HH:MM[:SS[.ffffff]]", ErrInvalidTime, s)
	}

	var t Time
	var err error
	if t.Hour, err = strconv.Atoi(parts[0]); err != nil {
		return Time{}, fmt.Errorf("%w: hour %q", ErrInvalidTime, parts[0])
	}
	if t.Minute, err = strconv.Atoi(parts[1]); err != nil {
		return Time{}, fmt.Errorf("%w: minute %q", ErrInvalidTime, parts[1])
	}
	if len(parts) == 3 {
		sec, frac, hasFrac := strings.Cut(parts[2], ".")
		if t.Second, err = strconv.Atoi(sec); err != nil {
			return Time{}, fmt.Errorf("%w: second %q", ErrInvalidTime, sec)
		}
		if hasFrac {
			if frac == "" || len(frac) > 6 {
				return Time{}, fmt.Errorf("%w: fraction %q", ErrInvalidTime, frac)
			}
			frac += strings.Repeat("0", 6-len(frac))
			if t.Microsecond, err = strconv.Atoi(frac); err != nil {
				return Time{}, fmt.Errorf("%w: fraction %q", ErrInvalidTime, frac)
			}
		}
	}
	if !t.Valid() {
		return Time{}, fmt.Errorf("%w: %q out of range", ErrInvalidTime, s)
	}
	return t, nil
}

// MarshalText encodes the reading in the String form.
func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes any form accepted by ParseTime.
func (t *Time) UnmarshalText(b []byte) error {
	v, err := ParseTime(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// EncodeMsgpack encodes the reading as a MessagePack string in the String
// form, matching its JSON encoding.
func (t Time) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(t.String())
}

// DecodeMsgpack decodes a MessagePack string in any form accepted by
// ParseTime.
func (t *Time) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return err
	}
	return t.UnmarshalText([]byte(s))
}
