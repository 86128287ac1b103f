// mintregistry 定量铸造注册表命令行
//
// 本地命令直接打开数据目录执行入口（与 serve 互斥，BadgerDB 同一时间只允许一个进程打开），
// 签名全部在本地用 --key 指定的私钥完成。
package main

func main() {
	Execute()
}
