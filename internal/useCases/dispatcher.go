package useCases

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/larriantoniy/alexa_ctl/internal/domain"
	"github.com/larriantoniy/alexa_ctl/internal/ports"
)

type handler func(ctx context.Context, args []string) (*domain.Result, error)

// Dispatcher сопоставляет имя операции из командной строки с обработчиком.
// Таблица фиксированная, всё остальное ErrUnknownOperation.
type Dispatcher struct {
	registry  *Registry
	transport ports.Transport
	builder   *domain.CommandBuilder
	endpoints domain.Endpoints
	log       *slog.Logger

	ops map[string]handler
}

func NewDispatcher(
	registry *Registry,
	transport ports.Transport,
	builder *domain.CommandBuilder,
	endpoints domain.Endpoints,
	log *slog.Logger,
) *Dispatcher {
	d := &Dispatcher{
		registry:  registry,
		transport: transport,
		builder:   builder,
		endpoints: endpoints,
		log:       log,
	}
	d.ops = map[string]handler{
		"listDevices":        d.listDevices,
		"getDeviceList":      d.listDevices,
		"getDevices":         d.getDevices,
		"getDeviceAttribute": d.getDeviceAttribute,
		"speak":              d.speak,
		"getWeather":         d.getWeather,
		"testApi":            d.testAPI,
		"refreshDevices":     d.refreshDevices,
	}
	return d
}

// Operations returns the supported operation names, sorted.
func (d *Dispatcher) Operations() []string {
	names := make([]string, 0, len(d.ops))
	for name := range d.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Dispatcher) Execute(ctx context.Context, name string, args []string) (*domain.Result, error) {
	h, ok := d.ops[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrUnknownOperation)
	}

	log := d.log.With("operation", name)
	log.Debug("execute", "args", args)

	res, err := h(ctx, args)
	if err != nil {
		log.Error("operation failed", "error", err)
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return res, nil
}

func (d *Dispatcher) listDevices(ctx context.Context, _ []string) (*domain.Result, error) {
	devices, err := d.registry.Devices(ctx)
	if err != nil {
		return nil, err
	}
	return domain.LinesResult(numbered(devices)), nil
}

func (d *Dispatcher) refreshDevices(ctx context.Context, args []string) (*domain.Result, error) {
	d.registry.Invalidate(ctx)
	return d.listDevices(ctx, args)
}

func (d *Dispatcher) getDevices(ctx context.Context, _ []string) (*domain.Result, error) {
	devices, err := d.registry.Devices(ctx)
	if err != nil {
		return nil, err
	}
	return domain.JSONResult(map[string]any{"devices": devices}), nil
}

// getDeviceAttribute: <index> <attribute>
func (d *Dispatcher) getDeviceAttribute(ctx context.Context, args []string) (*domain.Result, error) {
	index, err := indexArg(args)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 || args[1] == "" {
		return nil, fmt.Errorf("%w: attribute name required", domain.ErrInvalidArgument)
	}

	v, err := d.registry.Attribute(ctx, index, args[1])
	if err != nil {
		return nil, err
	}
	return domain.JSONResult(v), nil
}

// speak: <index> <message...>
func (d *Dispatcher) speak(ctx context.Context, args []string) (*domain.Result, error) {
	index, err := indexArg(args)
	if err != nil {
		return nil, err
	}
	message := strings.Join(args[1:], " ")
	return d.sendBehavior(ctx, index, domain.OpSpeak, message)
}

// getWeather: <index>
func (d *Dispatcher) getWeather(ctx context.Context, args []string) (*domain.Result, error) {
	index, err := indexArg(args)
	if err != nil {
		return nil, err
	}
	return d.sendBehavior(ctx, index, domain.OpWeather, "")
}

func (d *Dispatcher) testAPI(ctx context.Context, _ []string) (*domain.Result, error) {
	return d.transport.Send(ctx, http.MethodGet, d.endpoints.Devices, nil)
}

func (d *Dispatcher) sendBehavior(ctx context.Context, index int, op domain.OperationType, message string) (*domain.Result, error) {
	device, err := d.registry.DeviceAt(ctx, index)
	if err != nil {
		return nil, err
	}

	behavior, err := d.builder.Build(device, op, message)
	if err != nil {
		return nil, err
	}
	body, err := behavior.Encode()
	if err != nil {
		return nil, err
	}
	d.log.Debug("Alexa command", "command", string(body), "device", device.AccountName)

	return d.transport.Send(ctx, http.MethodPost, d.endpoints.BehaviorPreview, body)
}

func indexArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: device index required", domain.ErrInvalidArgument)
	}
	index, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("%w: device index %q is not an integer", domain.ErrInvalidArgument, args[0])
	}
	return index, nil
}

// numbered печатает список с единицы, хотя индексы в командах с нуля.
func numbered(devices []domain.Device) []string {
	lines := make([]string, 0, len(devices))
	for i, dev := range devices {
		lines = append(lines, fmt.Sprintf("%d.) %s", i+1, dev.AccountName))
	}
	return lines
}
