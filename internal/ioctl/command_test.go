package ioctl

import "testing"

func TestCommandString(t *testing.T) {
	tests := []struct {
		command Command
		want    string
	}{
		{0x4600, "ioctl (0 bytes) 0x4600"},
		{Command(Read)<<30 | 4<<16 | 0x6b01, "ioctl read (4 bytes) 0x6b01"},
		{Command(Write)<<30 | 1<<16 | 0x6b03, "ioctl write (1 bytes) 0x6b03"},
	}
	for _, test := range tests {
		if v := test.command.String(); v != test.want {
			t.Errorf("expected %q, got %q", test.want, v)
		}
	}
}
