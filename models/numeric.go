package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Les champs cliniques arrivent du front sous forme de buffer d'édition :
// nombre JSON, chaîne numérique, chaîne vide ou null. Une chaîne vide ou null
// devient NULL en base, jamais 0 ni NaN.

// NullableFloat champ numérique optionnel tolérant aux représentations du front
type NullableFloat struct {
	Value float64
	Set   bool
}

// NullableInt champ entier optionnel, mêmes règles de décodage que NullableFloat
type NullableInt struct {
	Value int
	Set   bool
}

var jsonNull = []byte("null")

func (n *NullableFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, jsonNull) {
		*n = NullableFloat{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*n = NullableFloat{}
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid numeric value: %q", s)
		}
		*n = NullableFloat{Value: v, Set: true}
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = NullableFloat{Value: v, Set: true}
	return nil
}

func (n NullableFloat) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return jsonNull, nil
	}
	return json.Marshal(n.Value)
}

// Ptr retourne la valeur prête pour GORM (nil -> NULL en base)
func (n NullableFloat) Ptr() *float64 {
	if !n.Set {
		return nil
	}
	v := n.Value
	return &v
}

func (n *NullableInt) UnmarshalJSON(data []byte) error {
	var f NullableFloat
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	if !f.Set {
		*n = NullableInt{}
		return nil
	}
	*n = NullableInt{Value: int(f.Value), Set: true}
	return nil
}

func (n NullableInt) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return jsonNull, nil
	}
	return json.Marshal(n.Value)
}

func (n NullableInt) Ptr() *int {
	if !n.Set {
		return nil
	}
	v := n.Value
	return &v
}
