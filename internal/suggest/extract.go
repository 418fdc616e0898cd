package suggest

import "strings"

// ExtractJSONCandidate は生成テキストからJSONオブジェクトらしき部分を
// 切り出す。最初の「{」から最後の「}」までを返し、markdownのコード
// フェンスや前後の説明文を取り除く。
// 「{」と「}」の組が見つからない場合はfalseを返す。
// 返される文字列が有効なJSONである保証はなく、パースは呼び出し側で行う。
func ExtractJSONCandidate(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	if start < 0 {
		return "", false
	}
	end := strings.LastIndex(raw, "}")
	if end < start {
		return "", false
	}
	return raw[start : end+1], true
}
