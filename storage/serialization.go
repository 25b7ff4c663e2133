// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/ector/core"
)

// TableHandleMUS is the MUS serializer for core.TableHandle.
// Field order: Id, Catalog, Schema, Table, Format, Location, RegisteredAt
// (Unix micros, 0 for the zero time).
var TableHandleMUS = tableHandleMUS{}

type tableHandleMUS struct{}

func (s tableHandleMUS) Marshal(v core.TableHandle, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(v.Id), bs)
	n += ord.String.Marshal(v.Ref.Catalog, bs[n:])
	n += ord.String.Marshal(v.Ref.Schema, bs[n:])
	n += ord.String.Marshal(v.Ref.Table, bs[n:])
	n += ord.String.Marshal(v.Format, bs[n:])
	n += ord.String.Marshal(v.Location, bs[n:])
	return n + varint.Int64.Marshal(unixMicro(v.RegisteredAt), bs[n:])
}

func (s tableHandleMUS) Unmarshal(bs []byte) (v core.TableHandle, n int, err error) {
	id, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Id = core.ID(id)

	var n1 int
	fields := []*string{&v.Ref.Catalog, &v.Ref.Schema, &v.Ref.Table, &v.Format, &v.Location}
	for _, field := range fields {
		*field, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}

	micros, n1, err := varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if micros != 0 {
		v.RegisteredAt = time.UnixMicro(micros).UTC()
	}
	return
}

func (s tableHandleMUS) Size(v core.TableHandle) (size int) {
	size = varint.Uint64.Size(uint64(v.Id))
	size += ord.String.Size(v.Ref.Catalog)
	size += ord.String.Size(v.Ref.Schema)
	size += ord.String.Size(v.Ref.Table)
	size += ord.String.Size(v.Format)
	size += ord.String.Size(v.Location)
	return size + varint.Int64.Size(unixMicro(v.RegisteredAt))
}

func unixMicro(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

// MarshalTableHandle serializes a TableHandle to bytes.
func MarshalTableHandle(handle *core.TableHandle) []byte {
	buf := make([]byte, TableHandleMUS.Size(*handle))
	TableHandleMUS.Marshal(*handle, buf)
	return buf
}

// UnmarshalTableHandle deserializes a TableHandle from bytes.
func UnmarshalTableHandle(data []byte) (*core.TableHandle, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, ErrTruncatedData)
	}
	handle, n, err := TableHandleMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrSerializationFailed, len(data)-n)
	}
	return &handle, nil
}
