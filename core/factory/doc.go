// Package factory provides a small generic registry used to instantiate modules
// such as metrics sinks from configuration. A module is defined by a type string
// and a map of raw settings; its factory decodes the settings into a typed struct.
//
//	reg := factory.NewRegistry[metrics.MetricsSink]()
//	reg.Register("influx", func(conf map[string]any) (metrics.MetricsSink, error) {
//	    var c struct{ URL string `json:"url"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return newInfluxSink(c.URL), nil
//	})
package factory
