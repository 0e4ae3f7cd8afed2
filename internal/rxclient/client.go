// Package rxclient talks to the receiver's Rx service over the Connect
// protocol with binary protobuf framing.
package rxclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"connectrpc.com/connect"
	"github.com/pkg/errors"

	"github.com/violetrx/webclient/internal/bootstrap"
)

const ServiceName = "Receiver.Rx"

const (
	SetInputDeviceProcedure = "/" + ServiceName + "/SetInputDevice"
	StartProcedure          = "/" + ServiceName + "/Start"
	GetFftDataProcedure     = "/" + ServiceName + "/GetFftData"
)

// Client implements bootstrap.Channel.
type Client struct {
	setInputDevice *connect.Client[StringValue, EmptyResponse]
	start          *connect.Client[Empty, EmptyResponse]
	getFftData     *connect.Client[Empty, FftFrameResponse]
}

var _ bootstrap.Channel = (*Client)(nil)

func New(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &Client{
		setInputDevice: connect.NewClient[StringValue, EmptyResponse](httpClient, baseURL+SetInputDeviceProcedure, opts...),
		start:          connect.NewClient[Empty, EmptyResponse](httpClient, baseURL+StartProcedure, opts...),
		getFftData:     connect.NewClient[Empty, FftFrameResponse](httpClient, baseURL+GetFftDataProcedure, opts...),
	}
}

// Dial checks baseURL and returns a Client on http.DefaultClient, which uses
// the browser's fetch when compiled for js/wasm.
func Dial(baseURL string) (bootstrap.Channel, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "rxclient: parse base url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("rxclient: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.Errorf("rxclient: base url %q has no host", baseURL)
	}
	return New(http.DefaultClient, baseURL), nil
}

func (c *Client) SetInputDevice(ctx context.Context, descriptor string) error {
	res, err := c.setInputDevice.CallUnary(ctx, connect.NewRequest(&StringValue{Value: descriptor}))
	if err != nil {
		return errors.WithMessage(err, SetInputDeviceProcedure)
	}
	return checkCode(SetInputDeviceProcedure, res.Msg.Code)
}

func (c *Client) Start(ctx context.Context) error {
	res, err := c.start.CallUnary(ctx, connect.NewRequest(&Empty{}))
	if err != nil {
		return errors.WithMessage(err, StartProcedure)
	}
	return checkCode(StartProcedure, res.Msg.Code)
}

// GetFftData returns a nil frame without error when the response carries
// none; the caller decides what that means.
func (c *Client) GetFftData(ctx context.Context) (*bootstrap.Frame, error) {
	res, err := c.getFftData.CallUnary(ctx, connect.NewRequest(&Empty{}))
	if err != nil {
		return nil, errors.WithMessage(err, GetFftDataProcedure)
	}
	if err = checkCode(GetFftDataProcedure, res.Msg.Code); err != nil {
		return nil, err
	}
	if res.Msg.FftFrame == nil {
		return nil, nil
	}
	return toFrame(res.Msg.FftFrame), nil
}

func toFrame(f *FftFrame) *bootstrap.Frame {
	frame := &bootstrap.Frame{
		Samples:    f.Data,
		CenterFreq: f.CenterFreq,
		SampleRate: f.SampleRate,
	}
	if f.Timestamp != nil {
		frame.Timestamp = bootstrap.Timestamp{Seconds: f.Timestamp.Seconds, Nanos: f.Timestamp.Nanos}
	}
	return frame
}
