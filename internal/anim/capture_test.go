package anim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heimdex/bsi-exporter/internal/scene"
	"github.com/heimdex/bsi-exporter/internal/scene/scenetest"
	"github.com/heimdex/bsi-exporter/internal/transform"
)

func scenetestNodes(nodes ...*scenetest.Node) []scene.Node {
	out := make([]scene.Node, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}

func movingRoot() *scenetest.Node {
	root := scenetest.NewNode("root_point")
	root.Pose = func(frame int) transform.Matrix {
		return transform.Translate(float64(frame), 0, 0)
	}
	return root
}

func TestCapture_FrameCountAndOrder(t *testing.T) {
	root := movingRoot()
	child := scenetest.NewNode("child")
	root.Add(child)
	child.Pose = func(frame int) transform.Matrix {
		return transform.Translate(float64(frame), 3, 0)
	}
	clip := &scenetest.Clip{ClipName: "walk", Start: 10, Stop: 13}
	s := scenetest.New([]*scenetest.Node{root}, clip)

	advances := 0
	table, err := Capture(s, clip, scene.Enumerate(root), func() { advances++ })
	require.NoError(t, err)

	require.Equal(t, 4, table.Len())
	assert.Equal(t, []int{10, 11, 12, 13}, table.Frames)
	assert.Equal(t, 3, advances)
	for f, snap := range table.Snapshots {
		require.Len(t, snap, 2)
		want := transform.Multiply(transform.Translate(float64(10+f), 0, 0), transform.AxisCorrection)
		assert.Equal(t, want, snap[0], "frame %d root", f)
		assert.True(t, transform.ApproxEqual(transform.Translate(0, 3, 0), snap[1], 1e-9), "frame %d child", f)
	}
}

func TestCapture_CallSequence(t *testing.T) {
	clip := &scenetest.Clip{ClipName: "idle", Start: 0, Stop: 2}
	root := movingRoot()
	s := scenetest.New([]*scenetest.Node{root}, clip)

	_, err := Capture(s, clip, scene.Enumerate(root), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"activate idle",
		"reevaluate",
		"seek 0",
		"reevaluate",
		"step",
		"reevaluate",
		"step",
		"reevaluate",
	}, s.Calls)
}

func TestCapture_SingleFrame(t *testing.T) {
	clip := &scenetest.Clip{ClipName: "pose", Start: 5, Stop: 5}
	root := movingRoot()
	s := scenetest.New([]*scenetest.Node{root}, clip)

	table, err := Capture(s, clip, scene.Enumerate(root), func() { t.Fatal("unexpected advance") })
	require.NoError(t, err)
	assert.Equal(t, []int{5}, table.Frames)
	assert.NotContains(t, s.Calls, "step")
}

func TestCapture_InvertedSpanCapturesStart(t *testing.T) {
	clip := &scenetest.Clip{ClipName: "odd", Start: 8, Stop: 3}
	root := movingRoot()
	s := scenetest.New([]*scenetest.Node{root}, clip)

	table, err := Capture(s, clip, scene.Enumerate(root), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{8}, table.Frames)
}

func TestCapture_EvaluationFailure(t *testing.T) {
	for _, op := range []string{"activate", "reevaluate", "seek", "step"} {
		t.Run(op, func(t *testing.T) {
			clip := &scenetest.Clip{ClipName: "walk", Start: 0, Stop: 3}
			root := movingRoot()
			s := scenetest.New([]*scenetest.Node{root}, clip)
			boom := errors.New("boom")
			s.Fail[op] = boom

			table, err := Capture(s, clip, scene.Enumerate(root), nil)
			require.Error(t, err)
			assert.Nil(t, table)
			assert.ErrorIs(t, err, ErrEvaluation)
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestTable_Track(t *testing.T) {
	clip := &scenetest.Clip{ClipName: "walk", Start: 0, Stop: 1}
	root := movingRoot()
	s := scenetest.New([]*scenetest.Node{root}, clip)

	table, err := Capture(s, clip, scene.Enumerate(root), nil)
	require.NoError(t, err)

	track := table.Track(0)
	require.Len(t, track, 2)
	assert.Equal(t, table.Snapshots[1][0], track[1])
}
