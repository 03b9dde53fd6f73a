package conf

/*
   Package conf wraps viper for the supportdesk app. Configuration is read
   once from an env file when one is present; otherwise every lookup falls
   through to the process environment. The config file, once loaded, is
   treated as immutable for the uptime of the application (tests excepted,
   via SetEnv/UnsetEnv).
*/

import (
	"errors"
	"os"
	"reflect"
	"strconv"
	"testing"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// An instance of the viper struct containing the conf information. Only made
// accessible through public functions GetEnv, SetEnv, etc.
var envVars viper.Viper

const (
	configgood    uint8 = 0
	configbad     uint8 = 1
	noconfigfound uint8 = 2
)

var state = configgood

func setup(dir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("local")
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	// Viper is lazy, do the read and parse of the config file
	if err := v.ReadInConfig(); err != nil {
		state = configbad
	}
	return v
}

func init() {
	var locationSlice = []string{
		"/go/src/github.com/camsops/supportdesk-app/shared_files/decrypted",
		"shared_files/decrypted",
	}

	if success, loc := findEnv(locationSlice); success {
		envVars = *setup(loc)
	} else {
		state = noconfigfound
	}
}

func findEnv(location []string) (bool, string) {
	if _, err := os.Stat(location[0] + "/local.env"); err == nil {
		return true, location[0]
	}

	if len(location) == 1 {
		return false, ""
	}

	return findEnv(location[1:])
}

// GetEnv retrieves the value stored in conf. If it does not exist, the empty
// string is returned.
func GetEnv(key string) string {
	if state == configgood {
		value := envVars.GetString(key)

		// Even if the config file loaded, a key it does not track may still
		// live in the environment. Copy it over to conf to prevent additional
		// OS calls.
		if value == "" {
			if v, ok := os.LookupEnv(key); ok {
				value = v
				test := &testing.T{}
				_ = SetEnv(test, key, v)
			}
		}

		return value
	}

	return os.Getenv(key)
}

// LookupEnv augments os.LookupEnv to look in the viper struct first.
func LookupEnv(key string) (string, bool) {
	if state == configgood {
		if value := envVars.Get(key); value != nil && value != "" {
			return value.(string), true
		}
		if v, exist := os.LookupEnv(key); exist {
			test := &testing.T{}
			_ = SetEnv(test, key, v)
			return v, exist
		}
		return "", false
	}

	return os.LookupEnv(key)
}

// SetEnv adds a key value pair into conf. The protect parameter is type
// *testing.T to ensure developers knowingly use it only in package or test
// scope.
func SetEnv(protect *testing.T, key string, value string) error {
	var err error

	if state == configgood {
		envVars.Set(key, value)
	} else {
		err = os.Setenv(key, value)
	}

	return err
}

// UnsetEnv "unsets" a variable. Like SetEnv, this should only be used in this
// package itself or testing.
func UnsetEnv(protect *testing.T, key string) error {
	if state == configgood {
		envVars.Set(key, "")
	}

	return os.Unsetenv(key)
}

// Checkout populates the fields of the provided struct pointer from conf.
// Fields are matched by their `conf` tag; when the looked-up value is empty
// the `conf_default` tag value is applied instead. Supported field kinds are
// string, int and bool.
func Checkout(target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return errors.New("conf: Checkout requires a pointer to a struct")
	}

	elem := v.Elem()
	values := make(map[string]interface{}, elem.NumField())

	for i := 0; i < elem.NumField(); i++ {
		field := elem.Type().Field(i)
		key, ok := field.Tag.Lookup("conf")
		if !ok {
			continue
		}

		raw := GetEnv(key)
		if raw == "" {
			raw = field.Tag.Get("conf_default")
		}
		if raw == "" {
			continue
		}

		switch field.Type.Kind() {
		case reflect.Int:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return err
			}
			values[key] = n
		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return err
			}
			values[key] = b
		default:
			values[key] = raw
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "conf",
		Result:  target,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(values)
}
