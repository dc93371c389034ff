// Command oxy-pointcloud renders a live point cloud from a Kinect-class depth sensor.
package main

import (
	"log"
	"os"
	"runtime"
)

func init() {
	// GLFW and the WebGPU surface must be driven from the main OS thread.
	runtime.LockOSThread()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Printf("[Main] %v", err)
		os.Exit(1)
	}
}
