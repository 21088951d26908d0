package ws

import (
	"errors"

	"github.com/go-viper/mapstructure/v2"
)

// Bind 把 Msg（JSON 解出的 map）解码到 dst，字段按 mapstructure tag 匹配。
// 数字字段允许以字符串形式传入。
func Bind(req *WsMsgReq, dst any) error {
	if req == nil || req.Body == nil {
		return errors.New("ws request body is nil")
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(req.Body.Msg)
}
