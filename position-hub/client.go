package positionhub

import (
	"github.com/quic-go/quic-go"
)

type Client struct {
	id   string
	conn quic.Connection
	send chan []byte
}

func NewClient(id string, conn quic.Connection) *Client {
	return &Client{
		id:   id,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

func (c *Client) ReadPump(hub *Hub) {
	defer func() {
		hub.onDisconnect(c.id)
		if err := hub.CloseClient(c.id, 0, "read pump closed"); err != nil {
			hub.log.Debug("close after read pump", "client", c.id, "error", err)
		}
	}()

	for {
		stream, err := c.conn.AcceptStream(hub.ctx)
		if err != nil {
			return
		}

		buf := bufferPool.Get().([]byte)
		n, err := stream.Read(buf)
		if err != nil {
			bufferPool.Put(buf)
			return
		}
		hub.onMessage(c.id, buf[:n])
		bufferPool.Put(buf)
	}
}

func (c *Client) WritePump(hub *Hub) {
	for {
		select {
		case <-hub.ctx.Done():
			return

		case message, ok := <-c.send:
			if !ok {
				return
			}
			stream, err := c.conn.OpenStreamSync(hub.ctx)
			if err != nil {
				hub.log.Error("failed opening stream", "client", c.id, "error", err)
				return
			}
			if _, err := stream.Write(message); err != nil {
				hub.log.Error("failed writing message", "client", c.id, "error", err)
			}
			stream.Close()
		}
	}
}
