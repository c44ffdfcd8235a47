package webhook

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
)

type TextContent struct {
	Content string `json:"content"`
}

type At struct {
	IsAtAll bool `json:"isAtAll"`
}

type Notify struct {
	MsgType string      `json:"msgtype"`
	Text    TextContent `json:"text"`
	At      At          `json:"at"`
}

type Result struct {
	ErrCode int64  `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// Notifier posts record activity to a chat webhook.
type Notifier struct {
	url string
}

func NewNotifier(url string) *Notifier {
	return &Notifier{
		url: url,
	}
}

func (n *Notifier) Notify(content string) (*Result, error) {
	notify := &Notify{
		MsgType: "text",
		Text:    TextContent{Content: content},
		At:      At{IsAtAll: false},
	}
	requestJson, _ := json.Marshal(notify)
	req, err := http.NewRequest("POST", n.url, strings.NewReader(string(requestJson)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accepts", "application/json")
	req.Header.Set("Content-Type", "application/json")
	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("response status code: %d", resp.StatusCode)
	}
	respBody, _ := ioutil.ReadAll(resp.Body)
	result := new(Result)
	err = json.Unmarshal(respBody, result)
	if err != nil {
		return nil, err
	}
	if result.ErrCode != 0 {
		return nil, fmt.Errorf("code: %d, err: %s", result.ErrCode, result.ErrMsg)
	}
	return result, nil
}
