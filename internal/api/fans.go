package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/fan2pwm/internal/fans"
	"github.com/qdm12/reprint"
)

type FanStatus struct {
	Id     string `json:"id"`
	Target string `json:"target"`
	// Pin is set for fans driven by software PWM on a GPIO line
	Pin *int `json:"pin,omitempty"`
	// HardwarePwmChannel is set for fans driven by a hardware PWM channel
	HardwarePwmChannel *int `json:"hardwarePwmChannel,omitempty"`
	// Duty is the last applied duty cycle in [0..1]
	Duty float64 `json:"duty"`
	// Temperature is the temperature of the last update, if any
	Temperature *uint8 `json:"temperature,omitempty"`
}

func newFanStatus(fan *fans.Fan) FanStatus {
	status := FanStatus{
		Id:     fan.GetId(),
		Target: fan.GetTarget().String(),
		Duty:   fan.GetLastDuty(),
	}
	switch target := fan.GetTarget().(type) {
	case *fans.SoftwarePin:
		pin := target.GetPin()
		status.Pin = &pin
	case *fans.HardwareChannel:
		channel := target.GetChannel()
		status.HardwarePwmChannel = &channel
	}
	if temperature, ok := fan.GetLastTemperature(); ok {
		status.Temperature = &temperature
	}
	return status
}

func registerFanEndpoints(rest *echo.Echo) {
	group := rest.Group("/fan")

	group.GET("/", getFans)
	group.GET("/:"+urlParamId+"/", getFan)
	group.GET("/:"+urlParamId+"/table/", getFanTable)
}

// returns a list of all currently configured fans
func getFans(c echo.Context) error {
	data := map[string]FanStatus{}
	for id, fan := range fans.FanMap.Items() {
		data[id] = newFanStatus(fan)
	}
	return c.JSONPretty(http.StatusOK, reprint.This(data), indentationChar)
}

func getFan(c echo.Context) error {
	id := c.Param(urlParamId)
	fan, exists := fans.FanMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, newFanStatus(fan), indentationChar)
}

// returns the duty cycle percentage of the fan for every temperature
func getFanTable(c echo.Context) error {
	id := c.Param(urlParamId)
	fan, exists := fans.FanMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, fan.GetTable(), indentationChar)
}
