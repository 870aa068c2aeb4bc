// Copyright 2013 - 2015 Sebastian Ruml <sebastian.ruml@gmail.com>
// Copyright 2021 - 2022 Mendel Greenberg <mendel@chabad360.me>

//Package osc provides the OpenSoundControl codec and UDP transport used to talk to OSC control surfaces.
//
//Open Sound Control (OSC) is an open, transport-independent, message-based protocol developed for communication among computers,
//sound synthesizers, and other multimedia devices.
//
//Features
//
//- Supports OSC messages with the following TypeTags:
//
//	'i' (Int32)
//	'f' (Float32)
//	's' (String)
//	'b' (Blob)
//
//- Decodes OSC bundles, including nested bundles, into a flat list of messages.
//
//- Address pattern matching and dispatching.
//
//Packets
//
//An OSC packet consists of its contents, a contiguous block of binary data.
//The size of an OSC packet is always 32-bit aligned.
//
//OSC packets come in two flavors:
//
//OSC Messages: An OSC message consists of an OSC address pattern and zero or more OSC arguments.
//
//OSC Bundles: An OSC Bundle consists of an OSC Timetag, followed by zero or more OSC bundle elements.
//Each bundle element can be another OSC bundle (note this recursive definition: a bundle may contain bundles) or OSC message.
//Bundles can be built and sent, but ParsePacket flattens them: the timetag and the nesting are dropped.
//
//Padding
//
//Strings and blobs are always followed by 4 - (n % 4) NUL bytes, so a blob whose length is already a multiple of 4
//gets a full word of padding. Strings come out identical to the OSC 1.0 encoding; aligned blobs do not.
//
//Usage
//
//OSC client example:
//  client, _ := osc.Dial("localhost:8765")
//  msg := osc.NewMessage("/osc/address", osc.Int32(111), osc.String("hello"))
//  client.Send(msg)
//
//OSC server example:
//  d := &osc.Dispatcher{}
//  d.AddMethodFunc("/message/address", func(msg *osc.Message) {
//      fmt.Println(msg)
//  })
//
//  server := &osc.Server{
//      Addr: "127.0.0.1:8765",
//      Handler: d.Dispatch,
//  }
//  server.ListenAndServe(ctx)
package osc
