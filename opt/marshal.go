// Copyright 2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package opt

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/sync/errgroup"

	"github.com/consensys/linopt/rational"
)

const headerLen = 2 * 8

// model pairs the variable values with the row index for serialization.
type model struct {
	Values   []rational.Rational
	RowIndex [][]uint32
}

// ToBytes serializes the tableau to a byte slice: a fixed header with the
// section lengths, then the rows and the model as two CBOR sections. Dead
// row slots are kept so row ids survive the round trip.
func (m *Optimizer) ToBytes() ([]byte, error) {
	var rowsData []byte
	var g errgroup.Group
	g.Go(func() error {
		var err error
		rowsData, err = toCBOR(m.rows)
		return err
	})
	modelData, err := toCBOR(model{Values: m.var2value, RowIndex: m.var2rows})
	if err != nil {
		return nil, err
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	buf := make([]byte, 0, headerLen+len(rowsData)+len(modelData))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(rowsData)))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(modelData)))
	buf = append(buf, rowsData...)
	buf = append(buf, modelData...)
	return buf, nil
}

// FromBytes replaces the engine state with the snapshot in data and returns
// the number of bytes read.
func (m *Optimizer) FromBytes(data []byte) (int, error) {
	if len(data) < headerLen {
		return 0, errors.New("invalid data length")
	}
	rowsLen := int(binary.LittleEndian.Uint64(data[:8]))
	modelLen := int(binary.LittleEndian.Uint64(data[8:16]))
	if len(data) < headerLen+rowsLen+modelLen {
		return 0, errors.New("invalid data length")
	}

	var rows []Row
	var g errgroup.Group
	g.Go(func() error {
		return fromCBOR(data[headerLen:headerLen+rowsLen], &rows)
	})
	var mdl model
	if err := fromCBOR(data[headerLen+rowsLen:headerLen+rowsLen+modelLen], &mdl); err != nil {
		return 0, err
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, errors.New("missing objective row")
	}
	if len(mdl.Values) != len(mdl.RowIndex) {
		return 0, errors.New("model and row index length mismatch")
	}

	m.rows = rows
	m.var2value = mdl.Values
	m.var2rows = mdl.RowIndex
	return headerLen + rowsLen + modelLen, nil
}

func toCBOR(v interface{}) ([]byte, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err := enc.NewEncoder(buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fromCBOR(data []byte, v interface{}) error {
	dm, err := cbor.DecOptions{
		MaxArrayElements: 2147483647,
		MaxMapPairs:      2147483647,
	}.DecMode()
	if err != nil {
		return err
	}
	return dm.NewDecoder(bytes.NewReader(data)).Decode(v)
}
