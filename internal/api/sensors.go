package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/fan2pwm/internal/configuration"
	"github.com/markusressel/fan2pwm/internal/sensors"
	"github.com/qdm12/reprint"
)

type SensorStatus struct {
	Id        string                     `json:"id"`
	Config    configuration.SensorConfig `json:"configuration"`
	MovingAvg float64                    `json:"movingAvg"`
}

func newSensorStatus(sensor sensors.Sensor) SensorStatus {
	return SensorStatus{
		Id:        sensor.GetId(),
		Config:    sensor.GetConfig(),
		MovingAvg: sensor.GetMovingAvg(),
	}
}

func registerSensorEndpoints(rest *echo.Echo) {
	group := rest.Group("/sensor")

	group.GET("/", getSensors)
	group.GET("/:"+urlParamId+"/", getSensor)
}

func getSensors(c echo.Context) error {
	data := map[string]SensorStatus{}
	for id, sensor := range sensors.SensorMap.Items() {
		data[id] = newSensorStatus(sensor)
	}
	return c.JSONPretty(http.StatusOK, reprint.This(data), indentationChar)
}

func getSensor(c echo.Context) error {
	id := c.Param(urlParamId)

	sensor, exists := sensors.SensorMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, newSensorStatus(sensor), indentationChar)
}
