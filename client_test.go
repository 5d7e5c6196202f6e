package nntp

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sntran/nntp/internal/testutils"
)

const greeting = "200 news.example.org InterNetNews ready (posting ok)\r\n"

// mockClient builds a Client over an in-memory connection preloaded with
// the given server transcript (greeting excluded).
func mockClient(t *testing.T, transcript ...string) (*Client, *testutils.ConnectionMock) {
	t.Helper()
	conn := testutils.NewConnectionMock(append([]string{greeting}, transcript...)...)
	client, err := newClient(conn, ConnectOptions{Hostname: "news.example.org"})
	require.NoError(t, err)
	return client, conn
}

func TestGreeting(t *testing.T) {
	client, _ := mockClient(t)
	assert.Equal(t, 200, client.Greeting().Status)
	assert.True(t, client.PostingAllowed())
	assert.False(t, client.Authenticated())
}

func TestGreetingReadOnly(t *testing.T) {
	conn := testutils.NewConnectionMock("201 news.example.org ready (no posting)\r\n")
	client, err := newClient(conn, ConnectOptions{Hostname: "news.example.org"})
	require.NoError(t, err)
	assert.False(t, client.PostingAllowed())
}

func TestGreetingRefused(t *testing.T) {
	conn := testutils.NewConnectionMock("502 too many connections\r\n")
	_, err := newClient(conn, ConnectOptions{Hostname: "news.example.org"})
	require.ErrorIs(t, err, ErrServerRefused)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 502, se.Status)
	assert.True(t, conn.Closed())
}

func TestDate(t *testing.T) {
	client, conn := mockClient(t, "111 20230101120000\r\n")

	resp, err := client.Date(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 111, resp.Status)
	assert.Equal(t, "20230101120000", resp.StatusText)
	assert.False(t, resp.HasBody())
	assert.Equal(t, "DATE\r\n", conn.Written())
}

func TestUndrainedBodyIsDiscarded(t *testing.T) {
	client, conn := mockClient(t,
		"100 Help text follows\r\nLine one\r\n..dotted\r\n.\r\n",
		"111 20230101120000\r\n",
	)

	resp, err := client.Help(t.Context())
	require.NoError(t, err)
	require.True(t, resp.HasBody())

	// Read only a little of the body, then issue the next command: the
	// client must discard the rest and stay aligned.
	buf := make([]byte, 4)
	_, err = resp.Body.Read(buf)
	require.NoError(t, err)

	resp, err = client.Date(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 111, resp.Status)
	assert.Equal(t, "HELP\r\nDATE\r\n", conn.Written())
}

func TestAuthinfo(t *testing.T) {
	client, conn := mockClient(t,
		"381 password required\r\n",
		"281 authentication accepted\r\n",
	)

	resp, err := client.Authinfo(t.Context(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, 281, resp.Status)
	assert.True(t, client.Authenticated())
	assert.Equal(t, "AUTHINFO USER alice\r\nAUTHINFO PASS secret\r\n", conn.Written())

	// Already authenticated: nothing goes over the wire.
	resp, err = client.Authinfo(t.Context(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, 281, resp.Status)
	assert.Equal(t, "AUTHINFO USER alice\r\nAUTHINFO PASS secret\r\n", conn.Written())
}

func TestAuthinfoWithoutPassword(t *testing.T) {
	client, conn := mockClient(t, "281 ok\r\n")

	resp, err := client.Authinfo(t.Context(), "alice", "unused")
	require.NoError(t, err)
	assert.Equal(t, 281, resp.Status)
	assert.True(t, client.Authenticated())
	assert.Equal(t, "AUTHINFO USER alice\r\n", conn.Written())
}

func TestAuthinfoRejected(t *testing.T) {
	client, _ := mockClient(t,
		"381 password required\r\n",
		"481 authentication failed\r\n",
	)

	resp, err := client.Authinfo(t.Context(), "alice", "wrong")
	require.NoError(t, err)
	assert.Equal(t, 481, resp.Status)
	assert.False(t, client.Authenticated())
}

func TestAuthinfoTLSRequired(t *testing.T) {
	client, _ := mockClient(t, "483 encryption required\r\n")

	resp, err := client.Authinfo(t.Context(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, 483, resp.Status)
	assert.False(t, client.Authenticated())
}

func TestPost(t *testing.T) {
	client, conn := mockClient(t,
		"340 send article\r\n",
		"240 article received\r\n",
	)

	var headers Headers
	headers.Add("From", "x")
	resp, err := client.Post(t.Context(), &Article{
		Headers: headers,
		Body:    strings.NewReader(".line\r\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, 240, resp.Status)
	assert.Equal(t, "POST\r\nFrom: x\r\n\r\n..line\r\n.\r\n", conn.Written())

	stats := client.Stats()
	assert.Equal(t, uint64(1), stats.ArticlesSent)
}

func TestPostProhibited(t *testing.T) {
	client, conn := mockClient(t, "440 posting not permitted\r\n")

	resp, err := client.Post(t.Context(), &Article{Body: strings.NewReader("x\r\n")})
	require.NoError(t, err)
	assert.Equal(t, 440, resp.Status)
	// The article was never transmitted.
	assert.Equal(t, "POST\r\n", conn.Written())
}

func TestIHaveDuplicate(t *testing.T) {
	client, conn := mockClient(t, "435 duplicate\r\n")

	resp, err := client.IHave(t.Context(), "x@y", &Article{Body: strings.NewReader("x\r\n")})
	require.NoError(t, err)
	assert.Equal(t, 435, resp.Status)
	assert.Equal(t, "IHAVE <x@y>\r\n", conn.Written())
}

func TestIHaveAccepted(t *testing.T) {
	client, conn := mockClient(t,
		"335 send it\r\n",
		"235 transferred\r\n",
	)

	resp, err := client.IHave(t.Context(), "<x@y>", &Article{Body: strings.NewReader("data\r\n")})
	require.NoError(t, err)
	assert.Equal(t, 235, resp.Status)
	assert.Equal(t, "IHAVE <x@y>\r\ndata\r\n.\r\n", conn.Written())
}

func TestCommandAfterClose(t *testing.T) {
	client, _ := mockClient(t)
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	_, err := client.Date(t.Context())
	assert.ErrorIs(t, err, ErrClientClosed)
}

func TestTruncatedResponseClosesClient(t *testing.T) {
	client, conn := mockClient(t, "222 0 <x@y>\r\ntruncated body")

	resp, err := client.Body(t.Context(), MessageID("x@y"))
	require.NoError(t, err)

	_, err = io.ReadAll(resp.Body)
	require.Error(t, err)
	assert.True(t, ShouldCloseConnection(err))

	// The next command sees the poisoned body and fails; the connection
	// gets closed.
	_, err = client.Date(t.Context())
	require.Error(t, err)
	assert.True(t, conn.Closed())
	assert.False(t, client.Authenticated())
}

func TestDialAndQuit(t *testing.T) {
	server, err := testutils.NewServer(greeting, testutils.ScriptedHandler(map[string]string{
		"CAPABILITIES": "101 capability list follows\r\nVERSION 2\r\nREADER\r\n.\r\n",
	}))
	require.NoError(t, err)
	defer server.Close()

	client, err := Dial(t.Context(), ConnectOptions{
		Hostname: server.Host(),
		Port:     server.Port(),
	})
	require.NoError(t, err)
	defer client.Close()

	resp, err := client.Capabilities(t.Context())
	require.NoError(t, err)
	require.True(t, resp.HasBody())

	caps, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "VERSION 2\r\nREADER\r\n", string(caps))

	resp, err = client.Quit(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 205, resp.Status)

	_, err = client.Date(t.Context())
	assert.ErrorIs(t, err, ErrClientClosed)
}

func TestPostAgainstServer(t *testing.T) {
	received := make(chan string, 1)
	server, err := testutils.NewServer(greeting, func(line string, rw *bufio.ReadWriter) bool {
		if line != "POST" {
			rw.WriteString("500 command not recognized\r\n")
			return true
		}
		rw.WriteString("340 send article\r\n")
		rw.Flush()

		var sb strings.Builder
		for {
			articleLine, err := rw.ReadString('\n')
			if err != nil {
				return false
			}
			if articleLine == ".\r\n" {
				break
			}
			sb.WriteString(articleLine)
		}
		received <- sb.String()
		rw.WriteString("240 article received\r\n")
		return true
	})
	require.NoError(t, err)
	defer server.Close()

	client, err := Dial(t.Context(), ConnectOptions{
		Hostname: server.Host(),
		Port:     server.Port(),
	})
	require.NoError(t, err)
	defer client.Close()

	var headers Headers
	headers.Add("From", "a@b")
	headers.Add("Newsgroups", "misc.test")
	resp, err := client.Post(t.Context(), &Article{
		Headers: headers,
		Body:    strings.NewReader(".leading dot\r\nplain\r\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, 240, resp.Status)

	wire := <-received
	assert.Equal(t, "From: a@b\r\nNewsgroups: misc.test\r\n\r\n..leading dot\r\nplain\r\n", wire)
}
