package configuration

type SensorConfig struct {
	ID string `json:"id"`
	// Path of a file containing the temperature in milli-degrees (or degrees) Celsius
	Path string `json:"path"`
	// RollingWindowSize is the number of readings averaged before a value is used, 1 disables smoothing
	RollingWindowSize int `json:"rollingWindowSize"`
}
