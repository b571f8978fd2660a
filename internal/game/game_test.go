package game

import "testing"

func TestMergeFrames_CombinesDevices(t *testing.T) {
	pad := InputFrame{AxisX: 0.4, Buttons: ButtonA}
	keys := InputFrame{AxisX: -0.9, AxisY: 0.2, Buttons: ButtonB}

	out := mergeFrames(pad, keys)
	if out.Buttons != ButtonA|ButtonB {
		t.Errorf("buttons should union: %04x", out.Buttons)
	}
	if out.AxisX != -0.9 {
		t.Errorf("the stronger x deflection should win, got %v", out.AxisX)
	}
	if out.AxisY != 0.2 {
		t.Errorf("the only y deflection should pass through, got %v", out.AxisY)
	}

	// The first source wins ties.
	tied := mergeFrames(InputFrame{AxisX: 1}, InputFrame{AxisX: -1})
	if tied.AxisX != 1 {
		t.Errorf("equal magnitudes should keep the first source, got %v", tied.AxisX)
	}
}

func TestLobbySettingValue_RendersEveryRow(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		row  int
		want string
	}{
		{0, "Rotate"},
		{1, "5 kills"},
		{2, "45s"},
		{3, "ON"},
		{4, "NORMAL"},
	}
	for _, c := range cases {
		if got := lobbySettingValue(cfg, c.row); got != c.want {
			t.Errorf("row %d = %q, want %q", c.row, got, c.want)
		}
	}

	cfg.StageSelect = PolicyFixedRing
	if got := lobbySettingValue(cfg, 0); got != "Ring Void" {
		t.Errorf("fixed stage row should name the stage, got %q", got)
	}
	cfg.StageSelect = PolicyRandom
	if got := lobbySettingValue(cfg, 0); got != "Random" {
		t.Errorf("random policy row = %q", got)
	}
	cfg.RoundTimeSeconds = 0
	if got := lobbySettingValue(cfg, 2); got != "no limit" {
		t.Errorf("clock-off row = %q", got)
	}
	cfg.FillBots = false
	if got := lobbySettingValue(cfg, 3); got != "OFF" {
		t.Errorf("bots-off row = %q", got)
	}
}

func TestRgba_UnpacksChannels(t *testing.T) {
	c := rgba(0x11223344)
	if c.R != 0x11 || c.G != 0x22 || c.B != 0x33 || c.A != 0x44 {
		t.Errorf("rgba(0x11223344) = %+v", c)
	}
}
