package entitytable

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var ErrUnsupportedStorageValue = errors.New("unsupported storage value")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BoolDomain maps boolean-ish storage values (bool, 0/1 integers, "0"/"1"/"true"/"false") to bool.
func BoolDomain() *Domain {
	return &Domain{
		FromDB: func(raw any) (any, error) {
			switch v := raw.(type) {
			case nil:
				return nil, nil
			case bool:
				return v, nil
			case int64:
				return v != 0, nil
			case int32:
				return v != 0, nil
			case int:
				return v != 0, nil
			case []byte:
				return strconv.ParseBool(string(v))
			case string:
				return strconv.ParseBool(v)
			default:
				return nil, fmt.Errorf("%w: %T as bool", ErrUnsupportedStorageValue, raw)
			}
		},
		ToDB: func(value any) (any, error) {
			switch v := value.(type) {
			case nil, bool:
				return v, nil
			default:
				return nil, fmt.Errorf("%w: %T as bool", ErrUnsupportedStorageValue, value)
			}
		},
	}
}

// DateDomain maps textual dates in the given layout to time.Time. Native time values pass through.
func DateDomain(layout string) *Domain {
	return &Domain{
		FromDB: func(raw any) (any, error) {
			switch v := raw.(type) {
			case nil:
				return nil, nil
			case time.Time:
				return v, nil
			case []byte:
				return time.Parse(layout, string(v))
			case string:
				return time.Parse(layout, v)
			default:
				return nil, fmt.Errorf("%w: %T as date", ErrUnsupportedStorageValue, raw)
			}
		},
		ToDB: func(value any) (any, error) {
			switch v := value.(type) {
			case nil:
				return nil, nil
			case time.Time:
				return v.Format(layout), nil
			default:
				return nil, fmt.Errorf("%w: %T as date", ErrUnsupportedStorageValue, value)
			}
		},
	}
}

// UUIDDomain maps textual or binary uuid storage values to uuid.UUID.
func UUIDDomain() *Domain {
	return &Domain{
		FromDB: func(raw any) (any, error) {
			switch v := raw.(type) {
			case nil:
				return nil, nil
			case uuid.UUID:
				return v, nil
			case [16]byte:
				return uuid.UUID(v), nil
			case string:
				return uuid.Parse(v)
			case []byte:
				if len(v) == 16 {
					return uuid.FromBytes(v)
				}
				return uuid.ParseBytes(v)
			default:
				return nil, fmt.Errorf("%w: %T as uuid", ErrUnsupportedStorageValue, raw)
			}
		},
		ToDB: func(value any) (any, error) {
			switch v := value.(type) {
			case nil:
				return nil, nil
			case uuid.UUID:
				return v.String(), nil
			default:
				return nil, fmt.Errorf("%w: %T as uuid", ErrUnsupportedStorageValue, value)
			}
		},
	}
}

// JSONDomain maps JSON storage values into V.
// Drivers that already decoded a jsonb column into maps or slices are re-encoded first.
func JSONDomain[V any]() *Domain {
	return &Domain{
		FromDB: func(raw any) (any, error) {
			var data []byte

			switch v := raw.(type) {
			case nil:
				return nil, nil
			case []byte:
				data = v
			case string:
				data = []byte(v)
			default:
				encoded, err := json.Marshal(v)
				if err != nil {
					return nil, err
				}
				data = encoded
			}

			var value V
			if err := json.Unmarshal(data, &value); err != nil {
				return nil, err
			}

			return value, nil
		},
		ToDB: func(value any) (any, error) {
			if value == nil {
				return nil, nil
			}

			return json.Marshal(value)
		},
	}
}
