package statistics

import (
	"github.com/markusressel/fan2pwm/internal/fans"
	"github.com/prometheus/client_golang/prometheus"
)

const fanSubsystem = "fan"

type FanCollector struct {
	fans        []*fans.Fan
	duty        *prometheus.Desc
	temperature *prometheus.Desc
}

func NewFanCollector(fans []*fans.Fan) *FanCollector {
	return &FanCollector{
		fans: fans,
		duty: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "duty"),
			"Current duty cycle of the fan in [0..1]",
			[]string{"id"}, nil,
		),
		temperature: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "temperature"),
			"Temperature the current duty cycle of the fan was looked up for",
			[]string{"id"}, nil,
		),
	}
}

func (collector *FanCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.duty
	ch <- collector.temperature
}

// Collect implements required collect function for all prometheus collectors
func (collector *FanCollector) Collect(ch chan<- prometheus.Metric) {
	for _, fan := range collector.fans {
		fanId := fan.GetId()
		ch <- prometheus.MustNewConstMetric(collector.duty, prometheus.GaugeValue, fan.GetLastDuty(), fanId)
		if temperature, ok := fan.GetLastTemperature(); ok {
			ch <- prometheus.MustNewConstMetric(collector.temperature, prometheus.GaugeValue, float64(temperature), fanId)
		}
	}
}
