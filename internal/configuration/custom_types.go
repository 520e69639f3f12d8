package configuration

import (
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// MillisecondsDurationHookFunc returns a mapstructure decode hook that interprets
// plain numbers as a duration in milliseconds.
func MillisecondsDurationHookFunc() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != durationType {
			return data, nil
		}

		switch v := data.(type) {
		case int:
			return time.Duration(v) * time.Millisecond, nil
		case int64:
			return time.Duration(v) * time.Millisecond, nil
		case uint16:
			return time.Duration(v) * time.Millisecond, nil
		case float64:
			return time.Duration(v * float64(time.Millisecond)), nil
		}

		return data, nil
	}
}
