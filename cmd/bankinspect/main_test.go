package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-bankbuild/bank"
	"go-bankbuild/descriptor"
	"go-bankbuild/midi"
	"go-bankbuild/theme"
)

func sampleFile() *bank.File {
	return &bank.File{
		Version: 3,
		Comment: "inspect me",
		Assets: []*bank.SampleAsset{
			{Name: "piano", SampleRate: 44100, Bits: 16, Channels: 2, RootKey: 60, LoopStart: 10, LoopEnd: 20},
		},
		Patches: []*bank.PatchRecord{
			{Name: "piano", Type: "basi", Descriptors: []descriptor.Custom{{ID: descriptor.GeneratorID}},
				Ranges: []bank.Range{{Bank: midi.DrumBank, Start: 35, End: 81}}},
			{Name: "lead", Type: "mult", Ranges: []bank.Range{{Bank: 0, Start: 0, End: 127}}},
		},
	}
}

func plain() *theme.Theme {
	th, _ := theme.Load("", false)
	return th
}

func TestPrintInfo(t *testing.T) {
	var out bytes.Buffer
	printInfo(&out, plain(), "/tmp/x.bank", sampleFile())
	assert.Contains(t, out.String(), "x.bank")
	assert.Contains(t, out.String(), "inspect me")
	assert.Contains(t, out.String(), "2 (1 multi)")
}

func TestPrintAssets(t *testing.T) {
	var out bytes.Buffer
	printAssets(&out, plain(), sampleFile())
	assert.Contains(t, out.String(), "44100")
	assert.Contains(t, out.String(), "10-20.00")
}

func TestPrintPatches(t *testing.T) {
	var out bytes.Buffer
	printPatches(&out, plain(), sampleFile())
	assert.Contains(t, out.String(), "[gen]")
	assert.Contains(t, out.String(), "drums")
	assert.Contains(t, out.String(), "(35-81)")
}
