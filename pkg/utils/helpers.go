package utils

import (
	"crypto/md5"
	"encoding/hex"
)

// CalculateMD5 computes the MD5 hash of a byte slice.
func CalculateMD5(data []byte) string {
	hasher := md5.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

// ContentID 基于内容哈希生成短ID，用于岗位去重
// 取MD5十六进制的前12位，与哈希全长相比碰撞概率对单用户场景可忽略
func ContentID(parts ...string) string {
	joined := ""
	for i, p := range parts {
		if i > 0 {
			joined += "-"
		}
		joined += p
	}
	return CalculateMD5([]byte(joined))[:12]
}
