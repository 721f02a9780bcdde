// Package serializers holds the wire models for vectors crossing to
// dynamically typed clients. Field names are the external contract,
// field indexes are frozen.
package serializers

import (
	"fmt"

	bufti "github.com/QYUbit/Bufti/go"

	"vek"
)

var VectorModel = bufti.NewModel("vec2",
	bufti.NewField(0, "x", bufti.Float64Type),
	bufti.NewField(1, "y", bufti.Float64Type),
)

var PositionUpdateModel = bufti.NewModel("position_update",
	bufti.NewField(0, "entity", bufti.StringType),
	bufti.NewField(1, "pos_x", bufti.Float64Type),
	bufti.NewField(2, "pos_y", bufti.Float64Type),
)

func EncodeVector(v vek.Vector2) ([]byte, error) {
	return VectorModel.Encode(map[string]any{
		"x": v.X,
		"y": v.Y,
	})
}

// DecodeVector runs decoded coordinates back through the vek.New gate,
// so a peer can never smuggle a non-finite vector over the wire.
func DecodeVector(data []byte) (vek.Vector2, error) {
	fields, err := VectorModel.Decode(data)
	if err != nil {
		return vek.Vector2{}, err
	}
	x, err := floatField(fields, "x")
	if err != nil {
		return vek.Vector2{}, err
	}
	y, err := floatField(fields, "y")
	if err != nil {
		return vek.Vector2{}, err
	}
	return vek.New(x, y)
}

func EncodePositionUpdate(entity string, v vek.Vector2) ([]byte, error) {
	return PositionUpdateModel.Encode(map[string]any{
		"entity": entity,
		"pos_x":  v.X,
		"pos_y":  v.Y,
	})
}

func DecodePositionUpdate(data []byte) (string, vek.Vector2, error) {
	fields, err := PositionUpdateModel.Decode(data)
	if err != nil {
		return "", vek.Vector2{}, err
	}

	entity, ok := fields["entity"].(string)
	if !ok {
		return "", vek.Vector2{}, fmt.Errorf("field entity is not a string")
	}
	x, err := floatField(fields, "pos_x")
	if err != nil {
		return "", vek.Vector2{}, err
	}
	y, err := floatField(fields, "pos_y")
	if err != nil {
		return "", vek.Vector2{}, err
	}

	v, err := vek.New(x, y)
	if err != nil {
		return "", vek.Vector2{}, err
	}
	return entity, v, nil
}

func floatField(fields map[string]any, key string) (float64, error) {
	value, exists := fields[key]
	if !exists {
		return 0, fmt.Errorf("missing field %s", key)
	}
	f, ok := value.(float64)
	if !ok {
		return 0, fmt.Errorf("field %s is not a float64", key)
	}
	return f, nil
}
