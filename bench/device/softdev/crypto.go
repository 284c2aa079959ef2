// Copyright 2025 SCION Association
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package softdev

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/devbench/devbench/bench/device"
	"github.com/devbench/devbench/pkg/private/serrors"
)

const (
	defaultIVLen  = 12
	defaultTagLen = 16
)

func init() {
	device.Register("soft-crypto", func(args map[string]string) (device.Device, error) {
		if err := noArgs("soft-crypto", args); err != nil {
			return nil, err
		}
		return newCrypto(), nil
	})
}

// newCrypto returns a software AEAD device backed by AES-GCM.
func newCrypto() device.Device {
	d := &base{
		info:      device.Info{Name: "soft-crypto", MaxQueues: 16, MaxBurst: 256},
		makeXform: makeCryptoXform,
	}
	d.newQueue = func(depth int) device.Queue {
		return newSoftQueue(d, cryptoProcess, depth)
	}
	return d
}

func makeCryptoXform(spec device.XformSpec) (any, error) {
	switch spec.Op {
	case device.XformEncrypt, device.XformDecrypt:
	default:
		return nil, serrors.New("unsupported transform", "op", spec.Op)
	}
	block, err := aes.NewCipher(spec.Key)
	if err != nil {
		return nil, serrors.Wrap("creating cipher", err, "key_len", len(spec.Key))
	}
	ivLen, tagLen := spec.IVLen, spec.TagLen
	if ivLen == 0 {
		ivLen = defaultIVLen
	}
	if tagLen == 0 {
		tagLen = defaultTagLen
	}
	// The standard library supports either a custom nonce size or a
	// custom tag size, not both at once.
	var aead cipher.AEAD
	switch {
	case ivLen == defaultIVLen && tagLen == defaultTagLen:
		aead, err = cipher.NewGCM(block)
	case ivLen == defaultIVLen:
		aead, err = cipher.NewGCMWithTagSize(block, tagLen)
	case tagLen == defaultTagLen:
		aead, err = cipher.NewGCMWithNonceSize(block, ivLen)
	default:
		return nil, serrors.New("unsupported iv/tag combination",
			"iv_len", ivLen, "tag_len", tagLen)
	}
	if err != nil {
		return nil, serrors.Wrap("creating gcm", err)
	}
	return aead, nil
}

func cryptoProcess(op *device.Op) device.Status {
	if op.Xform == nil || op.Src == nil || op.Dst == nil {
		return device.StatusInvalidArgs
	}
	aead, ok := op.Xform.Payload().(cipher.AEAD)
	if !ok {
		return device.StatusInvalidArgs
	}
	if len(op.IV) != aead.NonceSize() {
		return device.StatusInvalidArgs
	}
	src := op.Src.Bytes()
	if op.Offset < 0 || op.Length < 0 || op.Offset+op.Length > len(src) {
		return device.StatusInvalidArgs
	}
	src = src[op.Offset : op.Offset+op.Length]

	var out []byte
	switch op.Xform.Spec().Op {
	case device.XformEncrypt:
		out = aead.Seal(nil, op.IV, src, nil)
	case device.XformDecrypt:
		var err error
		out, err = aead.Open(nil, op.IV, src, nil)
		if err != nil {
			// Authentication failure is a per-descriptor error.
			return device.StatusError
		}
	default:
		return device.StatusInvalidArgs
	}
	region, err := op.Dst.Append(len(out))
	if err != nil {
		return device.StatusOutOfSpaceTerminated
	}
	copy(region, out)
	op.Consumed = len(src)
	op.Produced = len(out)
	return device.StatusSuccess
}
