package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

type OperationType string

// Идентификаторы из словаря Alexa, менять нельзя.
const (
	OpSpeak   OperationType = "Alexa.Speak"
	OpWeather OperationType = "Alexa.Weather.Play"
)

const (
	BehaviorPreview = "PREVIEW"
	StatusEnabled   = "ENABLED"
	DefaultLocale   = "en-US"

	sequenceType   = "com.amazon.alexa.behaviors.model.Sequence"
	opaqueNodeType = "com.amazon.alexa.behaviors.model.OpaquePayloadOperationNode"
)

type OperationPayload struct {
	DeviceType         string `json:"deviceType"`
	DeviceTypeID       string `json:"deviceTypeId"`
	DeviceSerialNumber string `json:"deviceSerialNumber"`
	Locale             string `json:"locale"`
	CustomerID         string `json:"customerId"`
	TextToSpeak        string `json:"textToSpeak,omitempty"`
}

type StartNode struct {
	Type             string           `json:"@type"`
	OperationType    OperationType    `json:"type"`
	OperationPayload OperationPayload `json:"operationPayload"`
}

type Sequence struct {
	Type      string    `json:"@type"`
	StartNode StartNode `json:"startNode"`
}

// Behavior тело POST /api/behaviors/preview.
// SequenceJSON это строка с JSON внутри, а не вложенный объект.
type Behavior struct {
	BehaviorID   string `json:"behaviorId"`
	SequenceJSON string `json:"sequenceJson"`
	Status       string `json:"status"`
}

// CommandBuilder собирает конверты команд для конкретной локали.
type CommandBuilder struct {
	Locale string
}

func NewCommandBuilder(locale string) *CommandBuilder {
	if strings.TrimSpace(locale) == "" {
		locale = DefaultLocale
	}
	return &CommandBuilder{Locale: locale}
}

// Build returns the envelope for op on device. A message is embedded only for
// OpSpeak, where it is mandatory; any other type must not carry one.
func (b *CommandBuilder) Build(device Device, op OperationType, message string) (*Behavior, error) {
	if device.SerialNumber == "" {
		return nil, fmt.Errorf("%w: serialNumber", ErrAttributeMissing)
	}

	payload := OperationPayload{
		DeviceType:         device.DeviceType,
		DeviceTypeID:       device.DeviceType,
		DeviceSerialNumber: device.SerialNumber,
		Locale:             b.Locale,
		CustomerID:         device.DeviceOwnerCustomerID,
	}

	switch op {
	case OpSpeak:
		if strings.TrimSpace(message) == "" {
			return nil, ErrMessageRequired
		}
		payload.TextToSpeak = message
	default:
		if message != "" {
			return nil, fmt.Errorf("%w: %s takes no message", ErrInvalidArgument, op)
		}
	}

	seq := Sequence{
		Type: sequenceType,
		StartNode: StartNode{
			Type:             opaqueNodeType,
			OperationType:    op,
			OperationPayload: payload,
		},
	}
	inner, err := json.Marshal(seq)
	if err != nil {
		return nil, fmt.Errorf("marshal sequence: %w", err)
	}

	return &Behavior{
		BehaviorID:   BehaviorPreview,
		SequenceJSON: string(inner),
		Status:       StatusEnabled,
	}, nil
}

// Encode сериализует конверт в тело запроса.
func (b *Behavior) Encode() ([]byte, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("marshal behavior: %w", err)
	}
	return data, nil
}

// Sequence decodes the inner sequenceJson string.
func (b *Behavior) Sequence() (*Sequence, error) {
	var seq Sequence
	if err := json.Unmarshal([]byte(b.SequenceJSON), &seq); err != nil {
		return nil, fmt.Errorf("unmarshal sequenceJson: %w", err)
	}
	return &seq, nil
}
