package osc

import "strings"

const zero = string(byte(0))

// nulls returns a string of `i` nulls.
func nulls(i int) string {
	return strings.Repeat(zero, i)
}

// raw joins the given wire fragments into a packet.
func raw(parts ...string) []byte {
	return []byte(strings.Join(parts, ""))
}

// makePacket creates a fake Message Packet.
func makePacket(addr string, args []string) *Message {
	msg := NewMessage(addr)
	for _, arg := range args {
		msg.Append(String(arg))
	}
	return msg
}

type testCase struct {
	name    string
	obj     *Message
	raw     []byte
	wantErr bool
}

var messageTestCases = []testCase{
	{
		"no_arguments",
		NewMessage("/a"),
		raw("/a", nulls(2), ",", nulls(3)),
		false,
	},
	{
		"aligned_address",
		NewMessage("/abc"),
		raw("/abc", nulls(4), ",", nulls(3)),
		false,
	},
	{
		"int32",
		NewMessage("/osc", Int32(1)),
		raw("/osc", nulls(4), ",i", nulls(2), "\x00\x00\x00\x01"),
		false,
	},
	{
		"negative_int32",
		NewMessage("/osc", Int32(-2)),
		raw("/osc", nulls(4), ",i", nulls(2), "\xff\xff\xff\xfe"),
		false,
	},
	{
		"float32",
		NewMessage("/deck/1/rate", Float32(0.5)),
		raw("/deck/1/rate", nulls(4), ",f", nulls(2), "\x3f\x00\x00\x00"),
		false,
	},
	{
		"string",
		NewMessage("/s", String("hello")),
		raw("/s", nulls(2), ",s", nulls(2), "hello", nulls(3)),
		false,
	},
	{
		"aligned_string",
		NewMessage("/s", String("four")),
		raw("/s", nulls(2), ",s", nulls(2), "four", nulls(4)),
		false,
	},
	{
		"blob",
		NewMessage("/b", Blob{1, 2, 3}),
		raw("/b", nulls(2), ",b", nulls(2), "\x00\x00\x00\x03", "\x01\x02\x03", nulls(1)),
		false,
	},
	{
		"aligned_blob",
		NewMessage("/b", Blob{1, 2, 3, 4}),
		raw("/b", nulls(2), ",b", nulls(2), "\x00\x00\x00\x04", "\x01\x02\x03\x04", nulls(4)),
		false,
	},
	{
		"empty_blob",
		NewMessage("/b", Blob{}),
		raw("/b", nulls(2), ",b", nulls(2), "\x00\x00\x00\x00", nulls(4)),
		false,
	},
	{
		"three_tags",
		NewMessage("/m", Int32(7), Float32(1), String("x")),
		raw("/m", nulls(2), ",ifs", nulls(4), "\x00\x00\x00\x07", "\x3f\x80\x00\x00", "x", nulls(3)),
		false,
	},
	{
		"all_types",
		NewMessage("/mixer/channel/1", Int32(1122), Float32(-1), String("deck"), Blob("xy")),
		raw("/mixer/channel/1", nulls(4), ",ifsb", nulls(3),
			"\x00\x00\x04\x62", "\xbf\x80\x00\x00", "deck", nulls(4), "\x00\x00\x00\x02", "xy", nulls(2)),
		false,
	},
}

type bundleTestCase struct {
	name string
	obj  *Bundle
	raw  []byte
	want []*Message
}

var (
	bundleMsgA = NewMessage("/a", Int32(1))
	bundleMsgB = NewMessage("/b", Float32(0.5))
	bundleMsgC = NewMessage("/c", String("c"))

	rawMsgA = raw("/a", nulls(2), ",i", nulls(2), "\x00\x00\x00\x01")
	rawMsgB = raw("/b", nulls(2), ",f", nulls(2), "\x3f\x00\x00\x00")
	rawMsgC = raw("/c", nulls(2), ",s", nulls(2), "c", nulls(3))

	immediate = "\x00\x00\x00\x00\x00\x00\x00\x01"
)

var bundleTestCases = []bundleTestCase{
	{
		"empty",
		NewBundle(),
		raw("#bundle", zero, immediate),
		nil,
	},
	{
		"two_messages",
		NewBundle(bundleMsgA, bundleMsgB),
		raw("#bundle", zero, immediate,
			"\x00\x00\x00\x0c", string(rawMsgA),
			"\x00\x00\x00\x0c", string(rawMsgB)),
		[]*Message{bundleMsgA, bundleMsgB},
	},
	{
		"nested",
		NewBundle(bundleMsgA, NewBundle(bundleMsgB, NewBundle(bundleMsgC)), bundleMsgC),
		raw("#bundle", zero, immediate,
			"\x00\x00\x00\x0c", string(rawMsgA),
			"\x00\x00\x00\x44",
			"#bundle", zero, immediate,
			"\x00\x00\x00\x0c", string(rawMsgB),
			"\x00\x00\x00\x20",
			"#bundle", zero, immediate,
			"\x00\x00\x00\x0c", string(rawMsgC),
			"\x00\x00\x00\x0c", string(rawMsgC)),
		[]*Message{bundleMsgA, bundleMsgB, bundleMsgC, bundleMsgC},
	},
}
