// Package buffer holds the bounded inbox used by the forward processor.
//
// A NATS handler must never block, so writes to a full buffer apply an
// overflow policy instead of waiting:
//
//	inbox := buffer.NewCircularBuffer[[]byte](1024,
//	    buffer.WithOverflowPolicy[[]byte](buffer.DropOldest),
//	    buffer.WithDropCallback(func([]byte) { dropped.Inc() }),
//	)
//	_ = inbox.Write(msg.Data)
//	batch := inbox.Drain()
package buffer
