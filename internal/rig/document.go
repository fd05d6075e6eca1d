// Package rig is a self-contained scene.Scene backed by a YAML document: a
// node hierarchy with rest poses and a set of keyframed takes. It lets the
// exporter run outside the authoring environment.
package rig

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk rig description.
//
//	nodes:
//	  - name: root_point
//	    translate: [0, 0, 0]
//	    children:
//	      - name: hips
//	        translate: [0, 95, 0]
//	takes:
//	  - name: walk_01
//	    start: 0
//	    stop: 30
//	    tracks:
//	      hips:
//	        - {frame: 0, rotate: [0, 0, 0]}
//	        - {frame: 30, rotate: [0, 90, 0]}
type Document struct {
	Nodes []NodeSpec `yaml:"nodes"`
	Takes []TakeSpec `yaml:"takes"`
}

// NodeSpec is a node's rest pose. Rotation is XYZ Euler in degrees.
type NodeSpec struct {
	Name      string     `yaml:"name"`
	Translate []float64  `yaml:"translate,omitempty"`
	Rotate    []float64  `yaml:"rotate,omitempty"`
	Scale     []float64  `yaml:"scale,omitempty"`
	Children  []NodeSpec `yaml:"children,omitempty"`
}

type TakeSpec struct {
	Name   string               `yaml:"name"`
	Start  int                  `yaml:"start"`
	Stop   int                  `yaml:"stop"`
	Tracks map[string][]KeySpec `yaml:"tracks,omitempty"`
}

// KeySpec sets any subset of a node's channels at a frame.
type KeySpec struct {
	Frame     int       `yaml:"frame"`
	Translate []float64 `yaml:"translate,omitempty"`
	Rotate    []float64 `yaml:"rotate,omitempty"`
	Scale     []float64 `yaml:"scale,omitempty"`
}

var ErrInvalidDocument = errors.New("invalid rig document")

// Load reads and builds the rig at path.
func Load(path string) (*Rig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rig: %w", err)
	}
	return Parse(data)
}

// Parse builds a rig from YAML.
func Parse(data []byte) (*Rig, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return Build(doc)
}

// Marshal encodes doc as YAML.
func Marshal(doc Document) ([]byte, error) {
	return yaml.Marshal(doc)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDocument, fmt.Sprintf(format, args...))
}

func checkVec(what string, v []float64) error {
	if v != nil && len(v) != 3 {
		return invalid("%s needs 3 components, got %d", what, len(v))
	}
	return nil
}
