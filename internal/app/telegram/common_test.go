package telegram

import (
  "testing"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "restockwatch/internal/models"
)

func TestParsePincode(t *testing.T) {
  tests := []struct {
    name  string
    input string
    want  string
  }{
    {name: "valid", input: "110001", want: "110001"},
    {name: "valid with spaces", input: "  110001  ", want: "110001"},
    {name: "too short", input: "1100"},
    {name: "too long", input: "1100011"},
    {name: "letters", input: "11000a"},
    {name: "empty", input: ""},
  }

  for _, tt := range tests {
    t.Run(tt.name, func(t *testing.T) {
      pincode, errMessage := parsePincode(tt.input)

      if tt.want == "" {
        assert.NotEmpty(t, errMessage)
        return
      }

      assert.Empty(t, errMessage)
      assert.Equal(t, tt.want, pincode)
    })
  }
}

func TestParseRecipientEmail(t *testing.T) {
  tests := []struct {
    name  string
    input string
    want  string
  }{
    {name: "valid", input: "alerts@example.com", want: "alerts@example.com"},
    {name: "valid with spaces", input: " alerts@example.com ", want: "alerts@example.com"},
    {name: "missing domain", input: "alerts@"},
    {name: "missing at", input: "alerts.example.com"},
    {name: "empty", input: ""},
  }

  for _, tt := range tests {
    t.Run(tt.name, func(t *testing.T) {
      email, errMessage := parseRecipientEmail(tt.input)

      if tt.want == "" {
        assert.NotEmpty(t, errMessage)
        return
      }

      assert.Empty(t, errMessage)
      assert.Equal(t, tt.want, email)
    })
  }
}

func TestParseProductName(t *testing.T) {
  tests := []struct {
    name  string
    input string
    want  string
  }{
    {name: "valid", input: "High Protein Buttermilk", want: "High Protein Buttermilk"},
    {name: "too short", input: "ab"},
    {name: "only spaces", input: "   "},
    {name: "empty", input: ""},
  }

  for _, tt := range tests {
    t.Run(tt.name, func(t *testing.T) {
      name, errMessage := parseProductName(tt.input)

      if tt.want == "" {
        assert.NotEmpty(t, errMessage)
        return
      }

      assert.Empty(t, errMessage)
      assert.Equal(t, tt.want, name)
    })
  }
}

func TestParseProductURL(t *testing.T) {
  tests := []struct {
    name  string
    input string
    want  string
  }{
    {
      name:  "valid",
      input: "https://shop.example.com/product/buttermilk",
      want:  "https://shop.example.com/product/buttermilk",
    },
    {
      name:  "valid inside message",
      input: "check this https://shop.example.com/product/buttermilk please",
      want:  "https://shop.example.com/product/buttermilk",
    },
    {name: "no scheme", input: "shop.example.com/product/buttermilk"},
    {name: "bare words", input: "buttermilk"},
    {name: "empty", input: ""},
  }

  for _, tt := range tests {
    t.Run(tt.name, func(t *testing.T) {
      url, errMessage := parseProductURL(tt.input)

      if tt.want == "" {
        assert.NotEmpty(t, errMessage)
        return
      }

      assert.Empty(t, errMessage)
      assert.Equal(t, tt.want, url)
    })
  }
}

func TestParseCallbackIndex(t *testing.T) {
  index, ok := parseCallbackIndex([]byte("remove_product:2"), callbackRemoveProductPrefix)
  require.True(t, ok)
  assert.Equal(t, 2, index)

  _, ok = parseCallbackIndex([]byte("remove_email:2"), callbackRemoveProductPrefix)
  assert.False(t, ok)

  _, ok = parseCallbackIndex([]byte("remove_product:abc"), callbackRemoveProductPrefix)
  assert.False(t, ok)

  minutes, ok := parseCallbackIndex([]byte("set_interval:15"), callbackSetIntervalPrefix)
  require.True(t, ok)
  assert.Equal(t, 15, minutes)
}

func TestChatAuthorization(t *testing.T) {
  transport := NewTransport(Dependencies{
    ChatIds: []models.ChatId{100, 200},
  })

  assert.True(t, transport.isAllowedChat(100))
  assert.True(t, transport.isAllowedChat(200))
  assert.False(t, transport.isAllowedChat(300))
  assert.False(t, transport.isAllowedChat(0))
}

func TestMakeStatusText(t *testing.T) {
  stored := &models.Settings{
    Pincode: "110001",
    Products: []models.Product{
      {Name: "Buttermilk", URL: "https://shop.example.com/product/buttermilk", Price: 600},
    },
    Email: models.EmailSettings{
      RecipientEmails: []string{"alerts@example.com"},
    },
    Monitoring: models.MonitoringSettings{CheckIntervalMinutes: 5},
  }

  text := makeStatusText(stored)

  assert.Contains(t, text, "Buttermilk")
  assert.Contains(t, text, "₹600.00")
  assert.Contains(t, text, "alerts@example.com")
  assert.Contains(t, text, "110001")
  assert.Contains(t, text, "every 5 min")
}

func TestMakeStatusTextEmpty(t *testing.T) {
  text := makeStatusText(&models.Settings{})

  assert.Contains(t, text, "No products tracked yet")
  assert.Contains(t, text, "No alert recipients yet")
  assert.Contains(t, text, "not set")
  assert.Contains(t, text, "every 10 min")
}
