package http

import "time"

// Exchange is one outbound call as seen by an HTTPLogger. Response fields are zero until
// the first attempt completes.
type Exchange struct {
	Method       string
	URL          string
	Headers      map[string]string
	Body         string
	Status       int
	ResponseBody string
	Latency      time.Duration
	Err          error
	Retry        int
	MaxRetries   int
}

func (e Exchange) with(result attempt) Exchange {
	e.Status = result.status
	e.ResponseBody = string(result.responseBody)
	e.Latency = result.latency
	e.Err = result.err
	return e
}

// HTTPLogger observes the client's traffic
type HTTPLogger interface {
	// LogRequest is called before every attempt
	LogRequest(exchange Exchange)
	// LogResponse is called once with the final outcome; Err is set for transport and status failures
	LogResponse(exchange Exchange)
	// LogRetry is called when the backoff schedules another attempt
	LogRetry(exchange Exchange)
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) LogRequest(Exchange)  {}
func (NopLogger) LogResponse(Exchange) {}
func (NopLogger) LogRetry(Exchange)    {}
